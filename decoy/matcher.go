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
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Matcher is the capability spec.md §4.4/§6 calls out: any condition
// argument implementing it delegates equality to Matches instead of
// structural equality. Adapted from godouble's Matcher/SingleArgMatcher
// (matcher.go), collapsed to the single-value case decoy's Condition
// needs (decoy has no method-args-matcher wrapper; each condition
// argument is matched independently).
type Matcher interface {
	Matches(other interface{}) bool
}

type funcMatcher struct {
	f           func(interface{}) bool
	explanation string
}

func (m funcMatcher) Matches(other interface{}) bool { return m.f(other) }
func (m funcMatcher) String() string                 { return m.explanation }

// Func builds a Matcher from an arbitrary predicate, optionally explained
// for nicer diagnostic rendering.
func Func(f func(interface{}) bool, explanation ...interface{}) Matcher {
	explain := "Func(...)"
	if len(explanation) > 0 {
		explain = fmt.Sprint(explanation...)
	}
	return funcMatcher{f, explain}
}

type eqMatcher struct{ v interface{} }

func (m eqMatcher) Matches(other interface{}) bool { return deepEqual(m.v, other) }
func (m eqMatcher) String() string                 { return fmt.Sprintf("Eq(%v)", m.v) }

// Eq matches a single argument via reflect.DeepEqual, exactly as
// godouble's Eql does.
func Eq(v interface{}) Matcher { return eqMatcher{v} }

type eqDiffMatcher struct{ v interface{} }

func (m eqDiffMatcher) Matches(other interface{}) bool { return cmp.Diff(other, m.v) == "" }
func (m eqDiffMatcher) String() string                 { return fmt.Sprintf("EqDiff(%v)", m.v) }

// EqDiff matches like Eq but via go-cmp.Diff instead of
// reflect.DeepEqual, so a type's own Equal method decides equality. No
// cmp.Option is applied: values holding unexported struct fields make
// cmp panic, and NaNs compare unequal as with DeepEqual. Wired per
// SPEC_FULL.md §2.
func EqDiff(v interface{}) Matcher { return eqDiffMatcher{v} }

type anyMatcher struct{}

func (anyMatcher) Matches(interface{}) bool { return true }
func (anyMatcher) String() string           { return "Any()" }

// Any matches any single value, including nil.
func Any() Matcher { return anyMatcher{} }

type nilMatcher struct{}

func (nilMatcher) String() string { return "Nil()" }
func (nilMatcher) Matches(arg interface{}) bool {
	if arg == nil {
		return true
	}
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

var singletonNilMatcher = nilMatcher{}

// Nil matches a single argument of any nil-able type being nil (or
// equivalent, eg a nil slice header).
func Nil() Matcher { return singletonNilMatcher }

type lenMatcher struct{ Matcher }

func (l lenMatcher) String() string { return fmt.Sprintf("Len(%v)", l.Matcher) }
func (l lenMatcher) Matches(arg interface{}) bool {
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice, reflect.String:
		return l.Matcher.Matches(v.Len())
	default:
		return false
	}
}

// Len matches an Array/Chan/Map/Slice/String argument whose length
// matches v (a literal int, or another Matcher over the length).
func Len(v interface{}) Matcher {
	if m, ok := v.(Matcher); ok {
		return lenMatcher{m}
	}
	return lenMatcher{Eq(v)}
}

// IsA matches an argument assignable to, or implementing, t (a
// reflect.Type or any value to derive one from via reflect.TypeOf). A
// pointer to an interface, eg (*error)(nil), stands for the interface.
func IsA(t interface{}) Matcher {
	rt, isType := t.(reflect.Type)
	if !isType {
		rt = reflect.TypeOf(t)
	}
	if rt.Kind() == reflect.Ptr && rt.Elem().Kind() == reflect.Interface {
		rt = rt.Elem()
	}
	return Func(func(x interface{}) bool {
		if x == nil {
			return false
		}
		xt := reflect.TypeOf(x)
		if xt.Kind() == reflect.Interface {
			return xt.AssignableTo(rt) || xt.Implements(rt)
		}
		return xt.AssignableTo(rt) || (rt.Kind() == reflect.Interface && xt.Implements(rt))
	}, "IsA(", rt, ")")
}

type matcherList []Matcher

func (l matcherList) String(prefix string, lRune, rRune rune) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteRune(lRune)
	for i, m := range l {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteString(fmt.Sprint(m))
	}
	sb.WriteRune(rRune)
	return sb.String()
}

type allMatcher struct{ matcherList }

func (a allMatcher) String() string { return a.matcherList.String("All", '(', ')') }
func (a allMatcher) Matches(arg interface{}) bool {
	for _, m := range a.matcherList {
		if !m.Matches(arg) {
			return false
		}
	}
	return true
}

// All matches if every one of matchers matches (vacuously true for none).
func All(matchers ...Matcher) Matcher { return allMatcher{matchers} }

type anyOfMatcher struct{ matcherList }

func (a anyOfMatcher) String() string { return a.matcherList.String("AnyOf", '(', ')') }
func (a anyOfMatcher) Matches(arg interface{}) bool {
	for _, m := range a.matcherList {
		if m.Matches(arg) {
			return true
		}
	}
	return false
}

// AnyOf matches if any one of matchers matches (vacuously false for none).
func AnyOf(matchers ...Matcher) Matcher { return anyOfMatcher{matchers} }

type notMatcher struct{ Matcher }

func (n notMatcher) String() string             { return fmt.Sprintf("Not(%v)", n.Matcher) }
func (n notMatcher) Matches(arg interface{}) bool { return !n.Matcher.Matches(arg) }

// Not negates matcher.
func Not(matcher Matcher) Matcher { return notMatcher{matcher} }

// Captor is a Matcher that always matches and records every value it was
// compared against, the way spec.md §6 defines a matcher's captured-value
// retrieval: ".value returns the first captured, raising a retrieval
// error if empty."
type Captor struct {
	values []interface{}
}

// NewCaptor returns a fresh, empty value Captor.
func NewCaptor() *Captor { return &Captor{} }

func (c *Captor) Matches(arg interface{}) bool {
	c.values = append(c.values, arg)
	return true
}

func (c *Captor) String() string { return "Captor()" }

// Value returns the first captured value, fatally failing t if nothing
// was ever captured.
func (c *Captor) Value(t T) interface{} {
	t.Helper()
	if len(c.values) == 0 {
		t.Fatalf("decoy: Captor has no captured value")
		return nil
	}
	return c.values[0]
}

// Values returns every captured value, in the order they were matched.
func (c *Captor) Values() []interface{} {
	return c.values
}
