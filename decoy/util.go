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

import "reflect"

// deepEqual is the default (non-Matcher) equality godouble's Eql uses,
// kept as a named indirection point so matcher.go's Eq and rule.go's
// matchValue agree on exactly one definition.
func deepEqual(want, got interface{}) bool {
	return reflect.DeepEqual(want, got)
}
