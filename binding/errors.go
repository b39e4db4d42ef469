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

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRequired indicates a required parameter with no supplied value.
	ErrRequired = errors.New("required value missing")

	// ErrEmptyCollection indicates a required collection parameter with
	// zero supplied values.
	ErrEmptyCollection = errors.New("required collection is empty")
)

// Error is a binding failure for one parameter. It always maps to HTTP 400:
// binding errors are client errors by definition, detected before the
// handler runs.
type Error struct {
	// Param is the declared parameter name.
	Param string

	// Source is the parameter's declared source.
	Source Source

	// Value is the raw value that failed to parse, empty for missing-value
	// failures.
	Value string

	// Err is the underlying cause.
	Err error
}

// Error formats as "bind query parameter \"tags\": invalid integer \"x\"".
func (e *Error) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("bind %s parameter %q: value %q: %v", e.Source, e.Param, e.Value, e.Err)
	}
	return fmt.Sprintf("bind %s parameter %q: %v", e.Source, e.Param, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns 400.
func (e *Error) HTTPStatus() int { return http.StatusBadRequest }

// Code returns the machine-readable error code.
func (e *Error) Code() string { return "binding_error" }

func bindErr(s Spec, value string, cause error) *Error {
	return &Error{Param: s.Name, Source: s.Source, Value: value, Err: cause}
}
