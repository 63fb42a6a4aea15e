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
	"reflect"
	"sync"
	"sync/atomic"
)

// Spy is the Go-shaped proxy spec.md's Spy Factory component produces: a
// handle an interface implementation (hand-written or generated; this
// repository ships no generator) forwards every method call to, and which a test
// drives directly via When/Verify. A Spy also serves as its own child
// container, since Go has no dynamic attribute lookup: GetChild lazily
// creates (and caches) a nested Spy per child Spec name, the idiomatic
// substitute for the host's dynamic wrapping of nested attributes.
type Spy struct {
	decoy  *Decoy
	spec   *Spec
	parent *Spy

	entryCount int32

	mu        sync.Mutex
	nodes     map[string]*node // per (kind,name) stub store, keyed by kind+name
	children  map[string]*Spy
	overrides map[string]interface{} // attribute values stored by Set, shadowing the child spy until Delete
}

func newSpy(d *Decoy, spec *Spec, parent *Spy) *Spy {
	return &Spy{
		decoy:     d,
		spec:      spec,
		parent:    parent,
		nodes:     map[string]*node{},
		children:  map[string]*Spy{},
		overrides: map[string]interface{}{},
	}
}

func (s *Spy) String() string {
	if s.parent == nil {
		return s.spec.Name
	}
	return s.parent.String() + "." + s.spec.Name
}

func nodeKey(kind InteractionKind, name string) string {
	return kind.String() + ":" + name
}

func (s *Spy) nodeFor(kind InteractionKind, name string) *node {
	key := nodeKey(kind, name)
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[key]
	if !ok {
		n = &node{}
		s.nodes[key] = n
	}
	return n
}

// GetChild returns the nested Spy for a child attribute/method name,
// creating it on first access. Used by generated doubles for spec members
// that are themselves mockable surfaces (eg a field of interface type).
func (s *Spy) GetChild(name string) *Spy {
	s.mu.Lock()
	defer s.mu.Unlock()
	child, ok := s.children[name]
	if !ok {
		child = newSpy(s.decoy, s.spec.childSpec(name), s)
		s.children[name] = child
	}
	return child
}

// Enter records a context-manager entry, incrementing the entry counter
// that is_entered conditions key off (spec.md §3). Returns whatever the
// matched rule's ThenEnterWith value was configured to be, or nil.
func (s *Spy) Enter() interface{} {
	atomic.AddInt32(&s.entryCount, 1)
	rec := s.record(KindEnter, "", nil)
	action, _ := s.applyRule(KindEnter, "", rec)
	if action != nil && action.kind == actionEnterWith {
		return action.enterWith
	}
	return nil
}

// Exit records a context-manager exit, decrementing the entry counter.
func (s *Spy) Exit() {
	atomic.AddInt32(&s.entryCount, -1)
	s.record(KindExit, "", nil)
}

// Get records a property read. An override stored by a prior Set shadows
// everything else and is returned directly; otherwise Get resolves
// against Get rules, falling back to the cached child Spy (so a plain,
// unstubbed, unset attribute of interface type still has a spy of its
// own to Call/Get/Set against) if no rule matches.
func (s *Spy) Get(name string) interface{} {
	rec := s.record(KindGet, name, nil)
	if v, ok := s.override(name); ok {
		s.nodeFor(KindGet, name).recordCall(rec, true)
		return v
	}
	action, matched := s.applyRule(KindGet, name, rec)
	if !matched {
		s.warnIfMiscalled(KindGet, name)
		return s.GetChild(name)
	}
	results, err := s.runAction(s.childSpecFor(name), action, nil)
	if err != nil {
		s.decoy.t.Fatalf("decoy: %v: Get rule produced an error: %v", rec, err)
	}
	if len(results) > 0 {
		return results[0]
	}
	return nil
}

// Set records a property write, resolves it against Set rules (most
// commonly ThenDo, to capture or validate the assigned value), and stores
// value as an override that shadows the child spy for subsequent Gets
// until a matching Delete.
func (s *Spy) Set(name string, value interface{}) {
	rec := s.record(KindSet, name, []interface{}{value})
	s.setOverride(name, value)
	action, matched := s.applyRule(KindSet, name, rec)
	if matched {
		if _, err := s.runAction(s.childSpecFor(name), action, []interface{}{value}); err != nil {
			s.decoy.t.Fatalf("decoy: %v: Set rule produced an error: %v", rec, err)
		}
	}
}

// Delete records a property/key deletion, clearing any override Set
// previously stored so Get reverts to resolving rules/the child spy.
func (s *Spy) Delete(name string) {
	rec := s.record(KindDelete, name, nil)
	s.clearOverride(name)
	action, matched := s.applyRule(KindDelete, name, rec)
	if matched {
		if _, err := s.runAction(s.childSpecFor(name), action, nil); err != nil {
			s.decoy.t.Fatalf("decoy: %v: Delete rule produced an error: %v", rec, err)
		}
	}
}

func (s *Spy) override(name string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.overrides[name]
	return v, ok
}

func (s *Spy) setOverride(name string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[name] = value
}

func (s *Spy) clearOverride(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, name)
}

// Call records a method invocation and resolves it against Call rules,
// returning the result tuple a generated double method should splat back
// to its caller. For a signature decoy knows about, args are first
// checked to bind; a mismatch reports SignatureMismatch (fatal only under
// WithStrictMode), and outside strict mode the call is still recorded and
// resolved against Call rules as usual.
func (s *Spy) Call(name string, args ...interface{}) []interface{} {
	s.decoy.t.Helper()
	child := s.childSpecFor(name)
	if child.Async {
		s.decoy.report(AsyncMismatch, "%s.%s is async: use Await, not Call, to resolve it", s, name)
		return child.zeroResults()
	}
	if child.Signature != nil && !child.Signature.binds(args) {
		s.decoy.report(SignatureMismatch, "%s.%s called with %v, not assignable to declared signature", s, name, args)
	}

	rec := s.record(KindCall, name, args)
	action, matched := s.applyRule(KindCall, name, rec)
	if !matched {
		s.warnIfMiscalled(KindCall, name)
		return child.zeroResults()
	}

	results, err := s.runAction(child, action, args)
	if err != nil {
		return s.injectError(child, err)
	}
	return results
}

// childSpecFor resolves the Spec a named interaction should be checked
// and zero-filled against. The empty name addresses the Spy's own Spec
// directly (the shape Mock/MockFunc produce for a single callable,
// invoked as spy.Call("", args...)); any other name looks up a child of
// an interface Spec (the shape MockInterface produces).
func (s *Spy) childSpecFor(name string) *Spec {
	if name == "" {
		return s.spec
	}
	return s.spec.childSpec(name)
}

func (s *Spy) record(kind InteractionKind, name string, args []interface{}) *CallRecord {
	rec := &CallRecord{
		Spy:        s,
		Kind:       kind,
		Name:       name,
		Args:       args,
		EntryCount: int(atomic.LoadInt32(&s.entryCount)),
		Seq:        s.decoy.nextSeq(),
	}
	s.decoy.logTrace("%v", rec)
	return rec
}

func (s *Spy) applyRule(kind InteractionKind, name string, rec *CallRecord) (*Action, bool) {
	n := s.nodeFor(kind, name)
	rule, matched := n.match(rec)
	n.recordCall(rec, matched)
	if !matched {
		return nil, false
	}
	action := rule.consume()
	return &action, true
}

func (s *Spy) warnIfMiscalled(kind InteractionKind, name string) {
	n := s.nodeFor(kind, name)
	if n.hasRules() {
		s.decoy.report(MiscalledStub, "%s.%s has rules installed but this call matched none of them", s, name)
	}
}

// runAction applies a single resolved Action, producing a result tuple
// and/or error. ThenDo runs the user function directly; ThenReturn/
// ThenRaise carry pre-built values. Delayed actions (return_values.go)
// block on their sleeper/timer first, exactly as godouble's Delayed and
// RandDelayed do.
func (s *Spy) runAction(spec *Spec, action *Action, args []interface{}) ([]interface{}, error) {
	if action.delay > 0 {
		sleeper := action.sleeper
		if sleeper == nil {
			sleeper = defaultTimewarp
		}
		<-sleeper(action.delay)
	}

	switch action.kind {
	case actionDo:
		return action.do(args)
	case actionRaise:
		return spec.zeroResults(), action.err
	case actionEnterWith:
		return nil, nil
	default: // actionReturn
		return action.values, nil
	}
}

// injectError places err into the error-typed result slot of spec's
// signature (the only slot a raise action can plausibly occupy when the
// method has a multi-value result tuple), zero-filling every other slot.
// A spec with no signature or no results yields nil and the error is
// dropped; if results are declared but none is error-assignable, the test
// is failed through T.Fatalf, since the rehearsal was misconfigured for a
// method that can't fail.
func (s *Spy) injectError(spec *Spec, err error) []interface{} {
	if spec.Signature == nil || len(spec.Signature.Results) == 0 {
		return nil
	}
	results := spec.zeroResults()
	errType := reflect.TypeOf((*error)(nil)).Elem()
	for i, rt := range spec.Signature.Results {
		if rt == errType || rt.Implements(errType) {
			results[i] = err
			return results
		}
	}
	s.decoy.t.Fatalf("decoy: %s.%s: ThenRaise configured but no result slot is assignable to error", s, spec.Name)
	return results
}

func (s *Spy) sweepMiscalled() {
	s.mu.Lock()
	nodes := make([]*node, 0, len(s.nodes))
	for _, n := range s.nodes {
		nodes = append(nodes, n)
	}
	children := make([]*Spy, 0, len(s.children))
	for _, c := range s.children {
		children = append(children, c)
	}
	s.mu.Unlock()

	for _, n := range nodes {
		if !n.hasRules() {
			continue
		}
		for _, rec := range n.unmatchedCalls() {
			s.decoy.report(MiscalledStub, "%v did not match any installed rule", rec)
		}
	}
	for _, c := range children {
		c.sweepMiscalled()
	}
}

func (s *Spy) reset() {
	s.mu.Lock()
	s.nodes = map[string]*node{}
	s.overrides = map[string]interface{}{}
	children := make([]*Spy, 0, len(s.children))
	for _, c := range s.children {
		children = append(children, c)
	}
	s.mu.Unlock()

	for _, c := range children {
		c.reset()
	}
}
