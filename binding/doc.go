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

// Package binding converts wire-level request values (path captures, query
// parameters, header and cookie lines, form fields) into typed handler
// arguments.
//
// A handler declares its parameters as a list of [Spec] values; [Bind]
// resolves every spec eagerly against the request and either returns the
// full typed argument list or a single *[Error] carrying HTTP status 400.
// A handler is never invoked with a partial bind.
//
// Each Spec names a source, a cardinality and an element type:
//
//	specs := []binding.Spec{
//		binding.Query("tags", binding.String).List(),
//		binding.Header("x-request-depth", binding.Int),
//		binding.Path("id", binding.Int64),
//	}
//	values, err := binding.Bind(binding.NewRequest(r, captures), specs)
//
// # Value gathering
//
// Query parameters gather all values for the repeated key in arrival order.
// Header and cookie parameters flatten repeated lines and comma-joined
// single lines into one ordered sequence, so
//
//	headerParam: abc
//	headerParam: def,hij
//
// and
//
//	headerParam: abc,def,hij
//
// both bind as the sequence [abc def hij]. The only exception is a
// one-cardinality plain-string bind, which receives the first physical
// value literally. Form fields are never comma-split; a one-cardinality
// form bind takes the first same-named pair and ignores the rest.
package binding
