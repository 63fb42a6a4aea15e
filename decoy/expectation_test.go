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

func TestExactly(t *testing.T) {
	e := Exactly(2)
	assert.False(t, e.Met(1))
	assert.True(t, e.Met(2))
	assert.False(t, e.Met(3))
}

func TestOnceTwice(t *testing.T) {
	assert.True(t, Once().Met(1))
	assert.True(t, Twice().Met(2))
}

func TestNever(t *testing.T) {
	assert.True(t, Never().Met(0))
	assert.False(t, Never().Met(1))
}

func TestAtLeastAtMost(t *testing.T) {
	assert.True(t, AtLeast(2).Met(5))
	assert.False(t, AtLeast(2).Met(1))
	assert.True(t, AtMost(2).Met(0))
	assert.False(t, AtMost(2).Met(3))
}

func TestBetween(t *testing.T) {
	b := Between(2, 4)
	assert.False(t, b.Met(1))
	assert.True(t, b.Met(2))
	assert.True(t, b.Met(4))
	assert.False(t, b.Met(5))
}
