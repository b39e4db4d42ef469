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

package router

import "errors"

var (
	// ErrServerTimeoutInvalid indicates a non-positive server timeout.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")

	// ErrRouteConflict indicates two registrations for the same
	// (method, template) pair.
	ErrRouteConflict = errors.New("conflicting route registration")
)
