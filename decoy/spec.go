/*
 * Copyright 2020 grant@lastweekend.com.au
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package decoy

import (
	"fmt"
	"reflect"
)

// Signature describes a callable surface: the types of its positional
// parameters (the last of which may be variadic) and its results.
type Signature struct {
	Params   []reflect.Type
	Variadic bool
	Results  []reflect.Type
}

// Spec is an immutable description of a mockable surface, derived once at
// spy creation time and never mutated afterwards. A Spec with a nil
// Signature accepts calls with any arguments (the "bare name" case).
type Spec struct {
	Name      string
	Signature *Signature
	Async     bool
	Children  map[string]*Spec
}

func (s *Spec) String() string {
	return s.Name
}

// childSpec returns the Spec for attribute/method name, deriving an
// untyped bare Spec on first access for names the interface or function
// spec didn't declare (so dynamically-shaped fakes still work).
func (s *Spec) childSpec(name string) *Spec {
	if child, ok := s.Children[name]; ok {
		return child
	}
	return &Spec{Name: name}
}

// SpecOption configures Spec derivation, in particular asyncness, which
// Go has no syntactic marker for (spec.md ties asyncness to "coroutine"
// methods; a Go interface method is never a coroutine, so it must be
// declared explicitly).
type SpecOption func(*specOptions)

type specOptions struct {
	async map[string]bool
}

// AsyncMethods marks the named interface methods (or, for a function
// spec, the function itself under the empty name "") as asynchronous:
// their stub actions resolve at Await time rather than at call time.
func AsyncMethods(names ...string) SpecOption {
	return func(o *specOptions) {
		if o.async == nil {
			o.async = map[string]bool{}
		}
		for _, n := range names {
			o.async[n] = true
		}
	}
}

func buildOptions(opts []SpecOption) specOptions {
	var o specOptions
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// NewSpecForInterface derives a Spec from the public surface of an
// interface. forInterface is expected to be the nil implementation of an
// interface, eg (*API)(nil), exactly as godouble's NewDouble requires.
func NewSpecForInterface(t T, forInterface interface{}, opts ...SpecOption) *Spec {
	t.Helper()
	o := buildOptions(opts)

	ifaceType := reflect.TypeOf(forInterface)
	if ifaceType == nil || ifaceType.Kind() != reflect.Ptr || ifaceType.Elem().Kind() != reflect.Interface {
		t.Fatalf("decoy: expecting %v to be a pointer to nil interface", forInterface)
		return &Spec{Name: fmt.Sprintf("%v", forInterface)}
	}
	ifaceType = ifaceType.Elem()

	children := make(map[string]*Spec, ifaceType.NumMethod())
	for i := 0; i < ifaceType.NumMethod(); i++ {
		m := ifaceType.Method(i)
		children[m.Name] = &Spec{
			Name:      m.Name,
			Signature: signatureFromFuncType(m.Type),
			Async:     o.async[m.Name],
		}
	}

	return &Spec{Name: ifaceType.String(), Children: children}
}

// NewSpecForFunc derives a Spec for a single free function, using fn only
// to recover its signature via reflection (fn is never called).
func NewSpecForFunc(t T, name string, fn interface{}, opts ...SpecOption) *Spec {
	t.Helper()
	o := buildOptions(opts)

	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		t.Fatalf("decoy: expecting %v to be a func, got %T", name, fn)
		return &Spec{Name: name}
	}

	return &Spec{
		Name:      name,
		Signature: signatureFromFuncType(fnType),
		Async:     o.async[""],
	}
}

// NewSpecForName builds a bare Spec with no signature: calls are accepted
// with any arguments, matching godouble's Fake-of-unregistered-method
// permissiveness.
func NewSpecForName(name string, async bool) *Spec {
	return &Spec{Name: name, Async: async}
}

func signatureFromFuncType(ft reflect.Type) *Signature {
	sig := &Signature{
		Params:   make([]reflect.Type, ft.NumIn()),
		Variadic: ft.IsVariadic(),
		Results:  make([]reflect.Type, ft.NumOut()),
	}
	for i := 0; i < ft.NumIn(); i++ {
		sig.Params[i] = ft.In(i)
	}
	for i := 0; i < ft.NumOut(); i++ {
		sig.Results[i] = ft.Out(i)
	}
	return sig
}

// binds reports whether args can be passed to a call matching sig: right
// arity (accounting for variadic trailing parameters) and each argument
// either nil for a nil-able parameter type or assignable to it. Go has no
// keyword arguments, so unlike the host this spec was distilled from,
// binding is purely positional (see DESIGN.md Open Question resolutions).
func (sig *Signature) binds(args []interface{}) bool {
	if sig == nil {
		return true
	}
	n := len(sig.Params)
	if sig.Variadic {
		if len(args) < n-1 {
			return false
		}
	} else if len(args) != n {
		return false
	}

	for i, arg := range args {
		var pt reflect.Type
		switch {
		case sig.Variadic && i >= n-1:
			pt = sig.Params[n-1].Elem()
		default:
			pt = sig.Params[i]
		}
		if !assignable(arg, pt) {
			return false
		}
	}
	return true
}

func assignable(arg interface{}, pt reflect.Type) bool {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			return true
		default:
			return false
		}
	}
	at := reflect.TypeOf(arg)
	if at.AssignableTo(pt) {
		return true
	}
	return pt.Kind() == reflect.Interface && at.Implements(pt)
}

// zeroResults returns the spec-typed default ("None for callables"): a
// zero value per declared result type, or nil if the spec has no
// signature at all.
func (s *Spec) zeroResults() []interface{} {
	if s.Signature == nil || len(s.Signature.Results) == 0 {
		return nil
	}
	out := make([]interface{}, len(s.Signature.Results))
	for i, rt := range s.Signature.Results {
		out[i] = reflect.Zero(rt).Interface()
	}
	return out
}
