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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockFunc(t *testing.T) {
	d := New(t)
	spy := d.MockFunc("greet", func(name string) string { return "" })

	When(spy).Call("", "world").ThenReturn("hello world")
	assert.Equal(t, "hello world", spy.Call("", "world")[0])
}

func TestMockName(t *testing.T) {
	d := New(t)
	spy := d.MockName("freeform", false)

	When(spy).Call("anything", 1, 2, 3).ThenReturn("ok")
	assert.Equal(t, "ok", spy.Call("anything", 1, 2, 3)[0])
}

func TestReset_ClearsRulesAndCalls(t *testing.T) {
	d := New(t)
	spy := d.MockInterface((*rehearsalAPI)(nil))
	When(spy).Call("Count").ThenReturn(1)
	spy.Call("Count")

	d.Reset()

	Verify(spy).Call("Count").Never()
	// the rule is also gone: an unstubbed Count now returns the zero value.
	assert.Equal(t, 0, spy.Call("Count")[0])
}

func TestReset_WarnsAboutMiscalledStubs(t *testing.T) {
	td := newTDouble(t)
	d2 := New(td)
	spy := d2.MockInterface((*rehearsalAPI)(nil))
	When(spy).Call("Query", "expected").ThenReturn("ok", nil)

	spy.Call("Query", "unexpected")

	d2.Reset()

	Verify(td.spy).Call("Logf", printfMatcher("MiscalledStub"), Any()).AtLeastOnce()
}

func TestWithTrace_LogsInteractions(t *testing.T) {
	td := newTDouble(t)
	d2 := New(td, WithTrace())
	spy := d2.MockInterface((*rehearsalAPI)(nil))

	spy.Call("Count")

	Verify(td.spy).Call("Logf", printfMatcher("Count"), Any()).AtLeastOnce()
}

func TestWithStrictMode_MakesSignatureMismatchFatal(t *testing.T) {
	td := newTDouble(t)
	td.FakeFatalfPanics()
	d2 := New(td, WithStrictMode())
	spy := d2.MockInterface((*rehearsalAPI)(nil))

	func() {
		defer func() { recover() }()
		spy.Call("Query", "one", "two", "three")
		t.Errorf("expected unreachable")
	}()
	Verify(td.spy).Call("Fatalf", printfMatcher("SignatureMismatch"), Any()).Once()
}
