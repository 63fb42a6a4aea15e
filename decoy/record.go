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

// InteractionKind is the kind of interaction a CallRecord describes.
type InteractionKind int

const (
	KindCall InteractionKind = iota
	KindGet
	KindSet
	KindDelete
	KindEnter
	KindExit
)

func (k InteractionKind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindGet:
		return "get"
	case KindSet:
		return "set"
	case KindDelete:
		return "delete"
	case KindEnter:
		return "enter"
	case KindExit:
		return "exit"
	default:
		return fmt.Sprintf("InteractionKind(%d)", int(k))
	}
}

// CallRecord is an immutable description of one interaction with a Spy.
// Records are totally ordered within a Decoy via Seq, which is the sole
// source of truth for ordering (spec.md §3).
type CallRecord struct {
	Spy        *Spy
	Kind       InteractionKind
	Name       string
	Args       []interface{}
	EntryCount int
	Seq        int64
}

func (r *CallRecord) String() string {
	if r.Name == "" {
		return fmt.Sprintf("%v.%s(%v)", r.Spy, r.Kind, r.Args)
	}
	return fmt.Sprintf("%v.%s(%q, %v)", r.Spy, r.Kind, r.Name, r.Args)
}
