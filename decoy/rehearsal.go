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

import "time"

// RehearsalOption configures the Condition a When/Verify rehearsal builds,
// replacing the host's implicit kwargs (ignore_extra_args=, is_entered=)
// with explicit functional options, the same shape godouble's own
// configurators use (see DESIGN.md Open Question resolutions).
type RehearsalOption func(*Condition)

// IgnoreExtraArgs allows a rehearsal's argument list to match a prefix of
// the actual call's arguments, ignoring any trailing ones.
func IgnoreExtraArgs() RehearsalOption {
	return func(c *Condition) { c.IgnoreExtraArgs = true }
}

// IsEntered restricts a rehearsal to calls made while (or not while) the
// Spy's context-manager entry counter is greater than zero.
func IsEntered(entered bool) RehearsalOption {
	return func(c *Condition) { c.IsEntered = &entered }
}

func buildCondition(kind InteractionKind, opts []RehearsalOption) Condition {
	c := Condition{Kind: kind}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// RehearsalBuilder is the entry point returned by When and Verify: it
// names which kind of interaction the rehearsal that follows describes.
// This is decoy's idiomatic-Go redesign of the host's "last call becomes
// a rehearsal" trick (spec.md §9): instead of recording a sentinel call on
// a thread-local channel and reinterpreting it, the test calls an
// explicit builder chain.
type RehearsalBuilder struct {
	spy  *Spy
	opts []RehearsalOption
}

// When begins a stub rehearsal against spy: decoy.When(spy).Call(...).ThenReturn(...).
func When(spy *Spy, opts ...RehearsalOption) *RehearsalBuilder {
	return &RehearsalBuilder{spy: spy, opts: opts}
}

// Call rehearses a method call with the given argument pattern (literals
// or Matchers).
func (b *RehearsalBuilder) Call(name string, args ...interface{}) *StubBuilder {
	return b.stub(KindCall, name, args)
}

// Get rehearses a property read.
func (b *RehearsalBuilder) Get(name string) *StubBuilder {
	return b.stub(KindGet, name, nil)
}

// Set rehearses a property write matching value.
func (b *RehearsalBuilder) Set(name string, value interface{}) *StubBuilder {
	return b.stub(KindSet, name, []interface{}{value})
}

// Delete rehearses a property/key deletion.
func (b *RehearsalBuilder) Delete(name string) *StubBuilder {
	return b.stub(KindDelete, name, nil)
}

// Enter rehearses context-manager entry.
func (b *RehearsalBuilder) Enter() *StubBuilder {
	return b.stub(KindEnter, "", nil)
}

// Exit rehearses context-manager exit.
func (b *RehearsalBuilder) Exit() *StubBuilder {
	return b.stub(KindExit, "", nil)
}

func (b *RehearsalBuilder) stub(kind InteractionKind, name string, args []interface{}) *StubBuilder {
	cond := buildCondition(kind, b.opts)
	cond.Args = args
	return &StubBuilder{spy: b.spy, name: name, condition: cond}
}

// StubBuilder installs the action sequence for one rehearsed condition.
type StubBuilder struct {
	spy       *Spy
	name      string
	condition Condition
}

func (b *StubBuilder) install(actions []Action) {
	n := b.spy.nodeFor(b.condition.Kind, b.name)
	n.addRule(newRule(b.condition, actions))
}

// ThenReturn installs a single action returning values as the method's
// full result tuple, repeating for every subsequent matching call. Use
// ThenReturnEach to install a one-shot sequence of single-value results
// instead (see DESIGN.md's ThenReturn/ThenReturnEach resolution).
func (b *StubBuilder) ThenReturn(values ...interface{}) *StubBuilder {
	b.install([]Action{{kind: actionReturn, values: values}})
	return b
}

// ThenReturnEach installs one single-value action per entry in values, so
// the first matching call returns values[0], the second values[1], and so
// on; once exhausted, later calls fall through to the next-best rule (or
// the zero value). This is the Go rendering of the host's
// .then_return(*values) sequence shorthand, split from ThenReturn because
// Go has no way to distinguish "one N-tuple" from "N one-tuples" from a
// single variadic call (spec.md §9 Open Question).
func (b *StubBuilder) ThenReturnEach(values ...interface{}) *StubBuilder {
	actions := make([]Action, len(values))
	for i, v := range values {
		actions[i] = Action{kind: actionReturn, values: []interface{}{v}}
	}
	b.install(actions)
	return b.Times(len(actions))
}

// ThenReturnAfter is ThenReturn delayed by d (godouble's Delayed).
func (b *StubBuilder) ThenReturnAfter(d time.Duration, values ...interface{}) *StubBuilder {
	b.install([]Action{{kind: actionReturn, values: values, delay: d}})
	return b
}

// ThenReturnWithin is ThenReturn delayed by a random duration in
// [min,max), or exactly min when max <= min (godouble's RandDelayed).
func (b *StubBuilder) ThenReturnWithin(min, max time.Duration, values ...interface{}) *StubBuilder {
	b.install([]Action{{kind: actionReturn, values: values, delay: randDuration(min, max)}})
	return b
}

// ThenRaise installs a single repeating action that fails the call with
// err.
func (b *StubBuilder) ThenRaise(err error) *StubBuilder {
	b.install([]Action{{kind: actionRaise, err: err}})
	return b
}

// ThenRaiseEach installs one one-shot raise action per entry in errs, the
// raise counterpart to ThenReturnEach.
func (b *StubBuilder) ThenRaiseEach(errs ...error) *StubBuilder {
	actions := make([]Action, len(errs))
	for i, e := range errs {
		actions[i] = Action{kind: actionRaise, err: e}
	}
	b.install(actions)
	return b.Times(len(actions))
}

// ThenDo installs a repeating action computed by fn, for stubs whose
// result depends on the call's actual arguments.
func (b *StubBuilder) ThenDo(fn func(args []interface{}) ([]interface{}, error)) *StubBuilder {
	b.install([]Action{{kind: actionDo, do: fn}})
	return b
}

// ThenEnterWith sets the value Enter() returns while this rule is active;
// only meaningful paired with RehearsalBuilder.Enter.
func (b *StubBuilder) ThenEnterWith(value interface{}) *StubBuilder {
	b.install([]Action{{kind: actionEnterWith, enterWith: value}})
	return b
}

// Times overrides the installed rule(s) remaining-count, for callers that
// want a bounded repeat count other than the default (unbounded for a
// single action, exactly len(actions) for a sequence).
func (b *StubBuilder) Times(n int) *StubBuilder {
	node := b.spy.nodeFor(b.condition.Kind, b.name)
	node.mu.Lock()
	if len(node.rules) > 0 {
		last := node.rules[len(node.rules)-1]
		last.mu.Lock()
		last.remaining = &n
		last.mu.Unlock()
	}
	node.mu.Unlock()
	return b
}

// VerifyBuilder is the Verify-side counterpart of RehearsalBuilder.
type VerifyBuilder struct {
	spy  *Spy
	opts []RehearsalOption
}

// Verify begins a call-count verification against spy:
// decoy.Verify(spy).Call(...).Expect(decoy.Once()).
func Verify(spy *Spy, opts ...RehearsalOption) *VerifyBuilder {
	return &VerifyBuilder{spy: spy, opts: opts}
}

func (b *VerifyBuilder) assertion(kind InteractionKind, name string, args []interface{}) *CountAssertion {
	cond := buildCondition(kind, b.opts)
	cond.Args = args
	return &CountAssertion{spy: b.spy, name: name, condition: cond}
}

func (b *VerifyBuilder) Call(name string, args ...interface{}) *CountAssertion {
	return b.assertion(KindCall, name, args)
}

func (b *VerifyBuilder) Get(name string) *CountAssertion {
	return b.assertion(KindGet, name, nil)
}

func (b *VerifyBuilder) Set(name string, value interface{}) *CountAssertion {
	return b.assertion(KindSet, name, []interface{}{value})
}

func (b *VerifyBuilder) Delete(name string) *CountAssertion {
	return b.assertion(KindDelete, name, nil)
}

func (b *VerifyBuilder) Enter() *CountAssertion {
	return b.assertion(KindEnter, "", nil)
}

func (b *VerifyBuilder) Exit() *CountAssertion {
	return b.assertion(KindExit, "", nil)
}

// CountAssertion checks how many recorded calls matched its condition
// against an Expectation, reporting VerificationFailed on mismatch.
type CountAssertion struct {
	spy       *Spy
	name      string
	condition Condition
}

func (c *CountAssertion) matchingCalls() []*CallRecord {
	n := c.spy.nodeFor(c.condition.Kind, c.name)
	var out []*CallRecord
	for _, rec := range n.allCalls() {
		if c.condition.matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Expect verifies the matching call count satisfies exp. It first warns
// if condition duplicates an existing When-installed rule on the same
// spy/name (spec.md §4.5: a call is either rehearsed as a stub or
// verified as an interaction, not both against the identical pattern).
func (c *CountAssertion) Expect(exp Expectation) []*CallRecord {
	c.spy.decoy.t.Helper()
	n := c.spy.nodeFor(c.condition.Kind, c.name)
	for _, rc := range n.ruleConditions() {
		if c.condition.equivalent(rc) {
			c.spy.decoy.report(RedundantVerify, "%s.%s: Verify(%v) duplicates an existing When rule installed on the same condition",
				c.spy, c.name, c.condition)
			break
		}
	}
	matches := c.matchingCalls()
	if !exp.Met(len(matches)) {
		c.spy.decoy.report(VerificationFailed, "%s.%s: expected %v calls matching %v, got %d\n%s",
			c.spy, c.name, exp, c.condition, len(matches), explainMismatch(c.condition, n.allCalls()))
	}
	return matches
}

// Times is sugar for Expect(Exactly(n)).
func (c *CountAssertion) Times(n int) []*CallRecord { return c.Expect(Exactly(n)) }

// Once is sugar for Expect(Once()).
func (c *CountAssertion) Once() []*CallRecord { return c.Expect(Once()) }

// Never is sugar for Expect(Never()).
func (c *CountAssertion) Never() []*CallRecord { return c.Expect(Never()) }

// AtLeastOnce is sugar for Expect(AtLeast(1)).
func (c *CountAssertion) AtLeastOnce() []*CallRecord { return c.Expect(AtLeast(1)) }

// OrderedVerifier checks a sequence of Verify-style assertions occur in
// strictly increasing Seq order, replacing the host's thread-local ordering
// context (spec.md §9: "ordered verification via an explicit object, not
// a context manager, since Go has no with-statement").
type OrderedVerifier struct {
	decoy   *Decoy
	highSeq int64
}

// VerifyOrder starts a fresh ordered-verification session against every
// Spy this Decoy has created.
func (d *Decoy) VerifyOrder() *OrderedVerifier {
	return &OrderedVerifier{decoy: d}
}

// Verify asserts that at least one call matching assertion's condition
// happened strictly after the highest Seq any previous call in this
// OrderedVerifier session matched, then advances the high-water mark to
// the earliest such call's Seq.
func (o *OrderedVerifier) Verify(assertion *CountAssertion) *CallRecord {
	o.decoy.t.Helper()
	var best *CallRecord
	for _, rec := range assertion.matchingCalls() {
		if rec.Seq <= o.highSeq {
			continue
		}
		if best == nil || rec.Seq < best.Seq {
			best = rec
		}
	}
	if best == nil {
		o.decoy.report(VerificationFailed, "%s.%s: no call matching %v occurred after sequence %d",
			assertion.spy, assertion.name, assertion.condition, o.highSeq)
		return nil
	}
	o.highSeq = best.Seq
	return best
}

// InOrder is sugar for verifying assertions in the order given, ported
// from godouble's ExpectInOrder.
func InOrder(d *Decoy, assertions ...*CountAssertion) {
	d.t.Helper()
	ov := d.VerifyOrder()
	for _, a := range assertions {
		ov.Verify(a)
	}
}
