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
	"math/rand"
	"time"
)

// defaultTimewarp is the production sleeper: a real timer, exactly the way
// godouble's return_values.go defaults Delayed/RandDelayed to time.After.
func defaultTimewarp(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// randDuration picks a random duration in [min,max) (min itself when
// max <= min), the same jitter
// godouble's RandDelayed applies before handing an action to Delayed.
func randDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
