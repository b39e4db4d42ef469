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

package httperror

import (
	"errors"
	"net/http"
)

var (
	// ErrRouteNotFound indicates that no registered route matched the
	// request method and path. Maps to 404.
	ErrRouteNotFound = errors.New("route not found")

	// ErrEmptySegment indicates a path containing an empty segment ("//"),
	// rejected before any resolution takes place. Maps to 400.
	ErrEmptySegment = errors.New("empty path segment")

	// ErrOutsideRoot indicates that a resolved static resource path escaped
	// the configured resource root. Maps to 404 so callers cannot probe
	// the filesystem layout.
	ErrOutsideRoot = errors.New("path resolves outside resource root")

	// ErrMissingParameter indicates a required parameter had no value. Maps to 400.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrCodecUnavailable indicates a declared content type with no
	// registered decoder or encoder. This is a server configuration fault,
	// not a client error. Maps to 500.
	ErrCodecUnavailable = errors.New("no codec registered for content type")

	// ErrBodyConsumed indicates a second attempt to consume a request body.
	// This is a usage error in the calling code, never retried.
	ErrBodyConsumed = errors.New("request body already consumed")
)

// StatusCarrier is implemented by errors that know their own HTTP status.
// Handler domain errors implementing this interface map 1:1 to their
// declared status, bypassing the default taxonomy mapping.
type StatusCarrier interface {
	error

	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// Coder is implemented by errors that expose a machine-readable code
// alongside the human message.
type Coder interface {
	error

	// Code returns a machine-readable error code.
	Code() string
}

// WithStatus wraps err with an explicit HTTP status code. The returned
// error implements [StatusCarrier] and unwraps to err.
//
// If err is nil, the standard status text for the code is used as the
// message.
//
// Example:
//
//	return httperror.WithStatus(err, http.StatusNotFound)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func (e *statusError) HTTPStatus() int { return e.status }

// StatusOf maps an error to its HTTP status code using the taxonomy
// described in the package documentation. A nil error maps to 200.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var carrier StatusCarrier
	if errors.As(err, &carrier) {
		return carrier.HTTPStatus()
	}

	switch {
	case errors.Is(err, ErrRouteNotFound), errors.Is(err, ErrOutsideRoot):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptySegment), errors.Is(err, ErrMissingParameter):
		return http.StatusBadRequest
	case errors.Is(err, ErrCodecUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
