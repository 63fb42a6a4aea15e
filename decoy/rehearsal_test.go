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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rehearsalAPI interface {
	Query(in string) (string, error)
	Count() int
}

func newRehearsalSpy(t *testing.T) (*Decoy, *Spy) {
	d := New(t)
	return d, d.MockInterface((*rehearsalAPI)(nil))
}

func TestWhen_ThenReturn(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	When(spy).Call("Query", "test").ThenReturn("result", nil)

	out := spy.Call("Query", "test")
	require.Len(t, out, 2)
	assert.Equal(t, "result", out[0])
	assert.Nil(t, out[1])
}

func TestWhen_ThenReturnRepeats(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	When(spy).Call("Count").ThenReturn(5)

	assert.Equal(t, 5, spy.Call("Count")[0])
	assert.Equal(t, 5, spy.Call("Count")[0])
}

func TestWhen_ThenReturnEachSequence(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	When(spy).Call("Count").ThenReturnEach(1, 2)

	assert.Equal(t, 1, spy.Call("Count")[0])
	assert.Equal(t, 2, spy.Call("Count")[0])
	// exhausted: falls through to the zero value, no other rule installed
	assert.Equal(t, 0, spy.Call("Count")[0])
}

func TestWhen_ThenRaise(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	boom := errors.New("boom")
	When(spy).Call("Query", "bad").ThenRaise(boom)

	out := spy.Call("Query", "bad")
	require.Len(t, out, 2)
	assert.Equal(t, "", out[0])
	assert.Equal(t, boom, out[1])
}

func TestWhen_ThenDo(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	When(spy).Call("Query", Any()).ThenDo(func(args []interface{}) ([]interface{}, error) {
		return []interface{}{args[0].(string) + "!", nil}, nil
	})

	out := spy.Call("Query", "hi")
	assert.Equal(t, "hi!", out[0])
}

func TestWhen_MostRecentWins(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	When(spy).Call("Query", Any()).ThenReturn("default", nil)
	When(spy).Call("Query", "special").ThenReturn("special result", nil)

	assert.Equal(t, "special result", spy.Call("Query", "special")[0])
	assert.Equal(t, "default", spy.Call("Query", "other")[0])
}

func TestVerify_Times(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	spy.Call("Count")
	spy.Call("Count")

	Verify(spy).Call("Count").Times(2)
}

func TestVerify_FailsFatallyOnMismatch(t *testing.T) {
	td := newTDouble(t)
	td.FakeFatalfPanics()
	spy := New(td).MockInterface((*rehearsalAPI)(nil))

	spy.Call("Count")

	func() {
		defer func() { recover() }()
		Verify(spy).Call("Count").Times(5)
		t.Errorf("expected unreachable")
	}()
	Verify(td.spy).Call("Fatalf", printfMatcher("VerificationFailed"), Any()).Once()
}

func TestIsEntered_MoreSpecificWins(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	When(spy).Call("Count").ThenReturn(1)
	When(spy, IsEntered(true)).Call("Count").ThenReturn(2)

	assert.Equal(t, 1, spy.Call("Count")[0])

	spy.Enter()
	assert.Equal(t, 2, spy.Call("Count")[0])
	spy.Exit()
	assert.Equal(t, 1, spy.Call("Count")[0])
}

func TestIgnoreExtraArgs(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	When(spy, IgnoreExtraArgs()).Call("Query", "x").ThenReturn("matched", nil)

	out := spy.Call("Query", "x")
	assert.Equal(t, "matched", out[0])
}

func TestThenReturnAfter_Delays(t *testing.T) {
	_, spy := newRehearsalSpy(t)
	start := time.Now()
	When(spy).Call("Count").ThenReturnAfter(10 * time.Millisecond, 7)

	assert.Equal(t, 7, spy.Call("Count")[0])
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestInOrder(t *testing.T) {
	d, spy := newRehearsalSpy(t)
	spy.Call("Query", "first")
	spy.Call("Count")
	spy.Call("Query", "second")

	InOrder(d,
		Verify(spy).Call("Query", "first"),
		Verify(spy).Call("Count"),
		Verify(spy).Call("Query", "second"),
	)
}

func TestVerify_WarnsWhenRedundantWithWhen(t *testing.T) {
	td := newTDouble(t)
	d2 := New(td)
	spy := d2.MockInterface((*rehearsalAPI)(nil))

	When(spy).Call("Query", "test").ThenReturn("result", nil)
	spy.Call("Query", "test")

	Verify(spy).Call("Query", "test").Once()

	Verify(td.spy).Call("Logf", printfMatcher("RedundantVerify"), Any()).Once()
}

func TestInOrder_FailsFatallyWhenOutOfOrder(t *testing.T) {
	td := newTDouble(t)
	td.FakeFatalfPanics()
	d2 := New(td)
	spy := d2.MockInterface((*rehearsalAPI)(nil))

	spy.Call("Query", "second")
	spy.Call("Query", "first")

	func() {
		defer func() { recover() }()
		InOrder(d2,
			Verify(spy).Call("Query", "first"),
			Verify(spy).Call("Query", "second"),
		)
		t.Errorf("expected unreachable")
	}()
	Verify(td.spy).Call("Fatalf", printfMatcher("VerificationFailed"), Any()).Once()
}
