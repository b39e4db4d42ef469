// Copyright 2025 The Weave Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package binding

import "fmt"

// Value is one resolved parameter. For One/Optional cardinality it holds a
// single element; for the collection cardinalities it holds the ordered
// element sequence.
//
// An Optional parameter with no supplied value has Present == false and a
// nil element; the absent marker is distinct from an empty string, and the
// handler decides how absence renders.
type Value struct {
	// Name is the declared parameter name.
	Name string

	// Present is false only for an Optional parameter with no value.
	Present bool

	// Cardinality echoes the spec's declared cardinality.
	Cardinality Cardinality

	single any
	many   []any
}

// Single returns the element of a One/Optional bind, nil when absent.
func (v Value) Single() any { return v.single }

// Elements returns the ordered elements of a collection bind.
func (v Value) Elements() []any { return v.many }

// Strings renders every element with fmt.Sprint, preserving order. For
// single-element values it returns a one-element slice, empty when absent.
func (v Value) Strings() []string {
	if v.Cardinality.multiValued() {
		out := make([]string, len(v.many))
		for i, e := range v.many {
			out[i] = fmt.Sprint(e)
		}
		return out
	}
	if !v.Present {
		return nil
	}
	return []string{fmt.Sprint(v.single)}
}

// String renders a single element, or "" when absent. Collection values
// render as their first element.
func (v Value) String() string {
	s := v.Strings()
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
