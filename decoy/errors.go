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

// DiagKind is the closed taxonomy of diagnostics from spec.md §7. Each
// kind is either fatal (routed through T.Fatalf, ending the current
// test) or a warning (routed through T.Logf, which does not interrupt
// control flow) per the propagation policy in spec.md §7.
type DiagKind int

const (
	// VerificationFailed: verify found the wrong number, or no matching
	// call. Fatal.
	VerificationFailed DiagKind = iota
	// MissingRehearsal: when/verify was invoked without an available
	// rehearsal target. Fatal.
	MissingRehearsal
	// MockSpecInvalid: Mock/NewSpecFor* received incompatible arguments.
	// Fatal.
	MockSpecInvalid
	// AsyncMismatch: a synchronous action was resolved against, or
	// configured for, a spec whose asyncness doesn't match. Fatal.
	AsyncMismatch
	// SignatureMismatch: an actual call didn't bind to the spec's
	// signature. Fatal only in strict mode.
	SignatureMismatch
	// MiscalledStub: spy has rules but was called with non-matching
	// args. Warning.
	MiscalledStub
	// RedundantVerify: verify duplicates an existing when rule. Warning.
	RedundantVerify
	// IncorrectCall: deprecated alias for SignatureMismatch, kept for
	// callers migrating diagnostics off the older name. Warning.
	IncorrectCall
)

func (k DiagKind) String() string {
	switch k {
	case VerificationFailed:
		return "VerificationFailed"
	case MissingRehearsal:
		return "MissingRehearsal"
	case MockSpecInvalid:
		return "MockSpecInvalid"
	case AsyncMismatch:
		return "AsyncMismatch"
	case SignatureMismatch:
		return "SignatureMismatch"
	case MiscalledStub:
		return "MiscalledStub"
	case RedundantVerify:
		return "RedundantVerify"
	case IncorrectCall:
		return "IncorrectCall"
	default:
		return "Unknown"
	}
}

// fatal reports whether diagnostics of this kind stop the current test by
// default. SignatureMismatch's fatality additionally depends on strict
// mode, handled by the caller (see Decoy.strict in decoy.go).
func (k DiagKind) fatal() bool {
	switch k {
	case VerificationFailed, MissingRehearsal, MockSpecInvalid, AsyncMismatch:
		return true
	default:
		return false
	}
}

// report routes a formatted diagnostic through t.Fatalf or t.Logf
// according to kind's classification, honoring strict mode for
// SignatureMismatch exactly as spec.md §7 requires. kind's name is
// spliced directly into the format string (rather than passed as a
// trailing %s argument) so the diagnostic kind is always visible in the
// literal template a caller-supplied T sees, not just in the rendered
// output a real *testing.T would produce.
func (d *Decoy) report(kind DiagKind, format string, args ...interface{}) {
	d.t.Helper()
	fatal := kind.fatal() || (kind == SignatureMismatch && d.strict)
	if fatal {
		d.t.Fatalf(fmt.Sprintf("decoy: %s: ", kind)+format, args...)
		return
	}
	d.t.Logf(fmt.Sprintf("decoy: %s (warning): ", kind)+format, args...)
}
