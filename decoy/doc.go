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

/*
Package decoy is a rehearsal-driven test-double engine for Go.

Where traditional Go mocking libraries ask you to declare expectations up
front (`On("Method", args).Return(...)`), Decoy asks you to *rehearse* the
call you want to stub or verify, using the ordinary-looking shape of the
call itself:

	d := decoy.New(t)
	spy := d.Mock(decoy.NewSpecForInterface(t, (*API)(nil)))

	decoy.When(spy).Call("Query", "test").ThenReturn(Result{Output: "result"}, nil)

	// exercise the system under test against spy ...

	decoy.Verify(spy).Call("Query", "test").Times(1)

Go has no dynamic dispatch on attribute access, so the "last call becomes a
rehearsal" trick from dynamic hosts is replaced by an explicit builder
chain: When(spy).Call(name, args...) and Verify(spy).Call(name, args...)
both describe the call being rehearsed directly, rather than intercepting
an ordinary invocation. See SPEC_FULL.md and DESIGN.md for the full set of
redesign decisions this implies.

A Spy is produced from a Spec (derived from an interface, a free function,
or a bare name) by a Decoy container, which also owns the interaction log
and the per-spy stub stores. Behavior is installed with When and asserted
with Verify/VerifyOrder; Decoy.Reset() clears all of it, first reporting
every recorded call that matched none of the rules installed for it.
*/
package decoy
