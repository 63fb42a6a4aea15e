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

// Awaitable is what Spy.Await returns for a method whose Spec is marked
// Async (see AsyncMethods). The CallRecord, with its sequence number, is
// created the moment Await is invoked; but the call enters the Spy's call
// history (and so counts towards Verify) only inside Resolve, together
// with the choice of which rule it matches and therefore which action
// runs, so a rehearsal installed after the call but before the result is
// consumed still takes effect. This is the idiomatic-Go stand-in for the host's
// coroutine-suspension point: Go has no async/await keyword, so
// AsyncMethods declares asyncness explicitly and Awaitable.Resolve plays
// the role of the "await expression" (see DESIGN.md Open Question
// resolutions).
type Awaitable struct {
	spy  *Spy
	name string
	spec *Spec
	rec  *CallRecord
}

// Resolve runs the matched rule now (not at call time) and returns its
// result tuple, or a zero tuple plus error if the rule raises.
func (a *Awaitable) Resolve() ([]interface{}, error) {
	action, matched := a.spy.applyRule(KindCall, a.name, a.rec)
	if !matched {
		a.spy.warnIfMiscalled(KindCall, a.name)
		return a.spec.zeroResults(), nil
	}
	return a.spy.runAction(a.spec, action, a.rec.Args)
}

// Await records an invocation of an async method without resolving its
// stub action, returning an Awaitable the caller resolves (typically
// immediately, but resolution is deliberately decoupled from recording).
func (s *Spy) Await(name string, args ...interface{}) *Awaitable {
	s.decoy.t.Helper()
	child := s.childSpecFor(name)
	if !child.Async {
		s.decoy.report(AsyncMismatch, "%s.%s is not declared async: use Call, not Await", s, name)
	}
	if child.Signature != nil && !child.Signature.binds(args) {
		s.decoy.report(SignatureMismatch, "%s.%s called with %v, not assignable to declared signature", s, name, args)
	}
	rec := s.record(KindCall, name, args)
	return &Awaitable{spy: s, name: name, spec: child, rec: rec}
}
