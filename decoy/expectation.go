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

import "fmt"

// Expectation verifies a count against an expected value. Ported
// near-verbatim from godouble's expectation.go: the same Exactly/Once/
// Twice/Never/AtLeast/AtMost/Between vocabulary, used here by
// CountAssertion instead of MockedMethodCall/RecordedCalls.
type Expectation interface {
	Met(count int) bool
}

type calledExactly int

func (n calledExactly) Met(count int) bool  { return count == int(n) }
func (n calledExactly) String() string      { return fmt.Sprintf("exactly %d", int(n)) }

type calledNever struct{}

func (calledNever) Met(count int) bool { return count == 0 }
func (calledNever) String() string     { return "never" }

type calledAtLeast int

func (n calledAtLeast) Met(count int) bool { return count >= int(n) }
func (n calledAtLeast) String() string     { return fmt.Sprintf("at least %d", int(n)) }

type calledBetween struct {
	atLeast int
	atMost  int
}

func (c calledBetween) Met(count int) bool { return count >= c.atLeast && count <= c.atMost }
func (c calledBetween) String() string {
	if c.atLeast <= 0 {
		return fmt.Sprintf("at most %d", c.atMost)
	}
	return fmt.Sprintf("between %d and %d", c.atLeast, c.atMost)
}

// Exactly expects a count of exactly n.
func Exactly(n int) Expectation { return calledExactly(n) }

// Once is shorthand for Exactly(1).
func Once() Expectation { return Exactly(1) }

// Twice is shorthand for Exactly(2).
func Twice() Expectation { return Exactly(2) }

var calledNeverSingleton = calledNever{}

// Never expects a count of zero.
func Never() Expectation { return calledNeverSingleton }

// AtLeast expects a count of at least n.
func AtLeast(n int) Expectation { return calledAtLeast(n) }

// AtMost expects a count of at most n.
func AtMost(n int) Expectation { return Between(0, n) }

// Between expects a count of at least min and at most max.
func Between(min, max int) Expectation { return calledBetween{min, max} }
