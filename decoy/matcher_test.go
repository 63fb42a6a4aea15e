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

func TestEq(t *testing.T) {
	m := Eq(42)
	assert.True(t, m.Matches(42))
	assert.False(t, m.Matches(43))
	assert.False(t, m.Matches("42"))
}

func TestEqDiff(t *testing.T) {
	type point struct{ X, Y int }
	m := EqDiff(point{1, 2})
	assert.True(t, m.Matches(point{1, 2}))
	assert.False(t, m.Matches(point{1, 3}))
}

func TestAny(t *testing.T) {
	m := Any()
	assert.True(t, m.Matches(nil))
	assert.True(t, m.Matches(42))
}

func TestNil(t *testing.T) {
	m := Nil()
	assert.True(t, m.Matches(nil))
	var p *int
	assert.True(t, m.Matches(p))
	assert.False(t, m.Matches(42))
}

func TestLen(t *testing.T) {
	m := Len(3)
	assert.True(t, m.Matches([]int{1, 2, 3}))
	assert.False(t, m.Matches([]int{1, 2}))
	assert.True(t, m.Matches("abc"))
}

func TestIsA(t *testing.T) {
	m := IsA(0)
	assert.True(t, m.Matches(42))
	assert.False(t, m.Matches("42"))

	m = IsA((*error)(nil))
	var err error = assert.AnError
	assert.True(t, m.Matches(err))
}

func TestAllAnyOfNot(t *testing.T) {
	positive := Func(func(v interface{}) bool { return v.(int) > 0 })
	even := Func(func(v interface{}) bool { return v.(int)%2 == 0 })

	assert.True(t, All(positive, even).Matches(4))
	assert.False(t, All(positive, even).Matches(3))
	assert.True(t, AnyOf(positive, even).Matches(-4))
	assert.False(t, AnyOf(positive, even).Matches(-3))
	assert.True(t, Not(positive).Matches(-1))
}

func TestCaptor(t *testing.T) {
	c := NewCaptor()
	assert.True(t, c.Matches("first"))
	assert.True(t, c.Matches("second"))
	assert.Equal(t, []interface{}{"first", "second"}, c.Values())
	assert.Equal(t, "first", c.Value(t))
}

func TestCaptor_ValueFatalsWhenEmpty(t *testing.T) {
	td := newTDouble(t)
	td.FakeFatalfPanics()

	c := NewCaptor()
	func() {
		defer func() { recover() }()
		c.Value(td)
		t.Errorf("expected unreachable")
	}()
	Verify(td.spy).Call("Fatalf", printfMatcher("no captured value"), Any()).Once()
}
