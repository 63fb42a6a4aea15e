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
	"regexp"
	"testing"
)

// TDouble is decoy mocking its own T interface, the self-hosting pattern
// ported from godouble's doubleT_test.go:TDouble/NewTDouble. Tests that
// need to observe whether decoy reported a diagnostic (rather than letting
// it fail the real *testing.T) construct a TDouble and assert against its
// underlying spy instead.
type TDouble struct {
	*Decoy
	spy *Spy
}

func newTDouble(t *testing.T) *TDouble {
	d := New(t)
	spy := d.MockInterface((*T)(nil))
	return &TDouble{Decoy: d, spy: spy}
}

func (td *TDouble) Errorf(format string, args ...interface{}) {
	td.spy.Call("Errorf", format, args)
}

func (td *TDouble) Fatalf(format string, args ...interface{}) {
	td.spy.Call("Fatalf", format, args)
}

// FakeFatalfPanics installs a rule making Fatalf panic with the formatted
// message, so fatal-diagnostic tests can recover() around the code under
// test exactly as godouble's FakeFatalf does.
func (td *TDouble) FakeFatalfPanics() {
	When(td.spy).Call("Fatalf", Any(), Any()).ThenDo(func(args []interface{}) ([]interface{}, error) {
		format := args[0].(string)
		fargs := args[1].([]interface{})
		panic(fmt.Sprintf(format, fargs...))
	})
}

func (td *TDouble) Logf(format string, args ...interface{}) {
	td.spy.Call("Logf", format, args)
}

func (td *TDouble) Helper() {
	td.spy.Call("Helper")
}

func printfMatcher(re string) Matcher {
	exp := regexp.MustCompile(re)
	return Func(func(arg interface{}) bool {
		format, ok := arg.(string)
		if !ok {
			return false
		}
		return exp.MatchString(format)
	}, fmt.Sprintf("/%s/", re))
}
