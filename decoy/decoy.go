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
	"sync"
	"sync/atomic"
)

// Decoy is the container a test obtains once and uses to Mock any number
// of Spies against. It owns the monotonic sequence counter every Spy's
// CallRecords are stamped with (generalizing godouble's package-global
// atomic tick, double.go, to one counter per Decoy so parallel tests never
// share sequence state) and the trace/strict-mode switches.
type Decoy struct {
	t      T
	seq    int64
	trace  bool
	strict bool

	mu   sync.Mutex
	spys []*Spy
}

// Option configures a Decoy at construction time, mirroring godouble's
// NewDouble(t, forInterface, configurators...) functional-option shape.
type Option func(*Decoy)

// WithTrace enables EnableTrace-style logging of every interaction and
// rule match as it happens, ported from godouble's double.go EnableTrace.
func WithTrace() Option {
	return func(d *Decoy) { d.trace = true }
}

// WithStrictMode makes a SignatureMismatch diagnostic fatal instead of a
// warning; spec.md §7 leaves the strictness of signature checking to the
// embedding test framework, so decoy exposes it as an explicit option
// rather than hard-coding either policy.
func WithStrictMode() Option {
	return func(d *Decoy) { d.strict = true }
}

// New creates a Decoy bound to t. t is almost always *testing.T, but any
// implementation of the T interface works, including the Spy-backed
// TDouble (newTDouble) that decoy's own dogfeeding tests use.
func New(t T, opts ...Option) *Decoy {
	d := &Decoy{t: t}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Decoy) nextSeq() int64 {
	return atomic.AddInt64(&d.seq, 1)
}

// Mock creates a new Spy implementing spec. The returned Spy is registered
// with the Decoy so Reset and the end-of-test miscalled-stub sweep can
// reach it.
func (d *Decoy) Mock(spec *Spec) *Spy {
	d.t.Helper()
	spy := newSpy(d, spec, nil)
	d.mu.Lock()
	d.spys = append(d.spys, spy)
	d.mu.Unlock()
	return spy
}

// MockInterface is sugar for Mock(NewSpecForInterface(d.t, forInterface, opts...)).
func (d *Decoy) MockInterface(forInterface interface{}, opts ...SpecOption) *Spy {
	d.t.Helper()
	return d.Mock(NewSpecForInterface(d.t, forInterface, opts...))
}

// MockFunc is sugar for Mock(NewSpecForFunc(d.t, name, fn, opts...)).
func (d *Decoy) MockFunc(name string, fn interface{}, opts ...SpecOption) *Spy {
	d.t.Helper()
	return d.Mock(NewSpecForFunc(d.t, name, fn, opts...))
}

// MockName is sugar for Mock(NewSpecForName(name, async)).
func (d *Decoy) MockName(name string, async bool) *Spy {
	return d.Mock(NewSpecForName(name, async))
}

// Reset clears every recorded interaction and installed rule on every Spy
// this Decoy has created, after first running the miscalled-stub sweep
// (Spy.sweepMiscalled in spy.go) so calls made since the last Reset that slipped past
// every rule are surfaced before their history is discarded.
func (d *Decoy) Reset() {
	d.t.Helper()
	d.mu.Lock()
	spys := make([]*Spy, len(d.spys))
	copy(spys, d.spys)
	d.mu.Unlock()

	for _, spy := range spys {
		spy.sweepMiscalled()
	}
	for _, spy := range spys {
		spy.reset()
	}
}

// logTrace renders format/args to a single string up front (rather than
// forwarding format/args through to T.Logf) so the interaction being
// traced is visible in the literal message a caller-supplied T sees, the
// same reasoning errors.go's report applies to the diagnostic kind.
func (d *Decoy) logTrace(format string, args ...interface{}) {
	if d.trace {
		d.t.Logf("decoy trace: " + fmt.Sprintf(format, args...))
	}
}
