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
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// explainMismatch renders the detail of a VerificationFailed diagnostic
// with a go-cmp diff between the expected condition's arguments and the
// arguments of each of the (up to five) most recent recorded calls, so a
// failure message shows exactly
// which argument diverged instead of only "no match" (the readable-
// diagnostics requirement of spec.md §7). Wired per SPEC_FULL.md §2.
func explainMismatch(cond Condition, calls []*CallRecord) string {
	if len(calls) == 0 {
		return "no calls were recorded at all"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d call(s) recorded; closest candidates:\n", len(calls))
	limit := len(calls)
	if limit > 5 {
		limit = 5
	}
	for _, rec := range calls[len(calls)-limit:] {
		diff := diffArgs(cond.Args, rec.Args)
		if diff == "" {
			diff = "(arguments equal; mismatch is elsewhere, eg is_entered or ignore-extra-args)"
		}
		fmt.Fprintf(&sb, "  seq=%d args diff (-want +got):\n%s", rec.Seq, diff)
	}
	return sb.String()
}

// diffArgs renders the difference between a condition's expected
// arguments and a recorded call's actual arguments. want may contain
// Matchers (eg Eq, Func), which carry unexported fields cmp.Diff panics
// on without an IgnoreUnexported option; rather than special-case every
// matcher type, any want containing a Matcher is rendered with fmt
// instead of diffed structurally.
func diffArgs(want, got []interface{}) string {
	if !containsMatcher(want) {
		return cmp.Diff(want, got)
	}
	ws, gs := fmt.Sprintf("%v", want), fmt.Sprintf("%v", got)
	if ws == gs {
		return ""
	}
	return fmt.Sprintf("-want %s\n+got  %s", ws, gs)
}

func containsMatcher(args []interface{}) bool {
	for _, a := range args {
		if _, ok := a.(Matcher); ok {
			return true
		}
	}
	return false
}
