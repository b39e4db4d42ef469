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

// Package httperror defines the error taxonomy shared by the routing,
// binding and codec layers, and the interfaces that let application errors
// carry their own HTTP status.
//
// An error reaching the response writer is mapped to a status code as
// follows:
//
//  1. If it implements [StatusCarrier], its HTTPStatus() wins.
//  2. Known taxonomy sentinels map to their documented codes
//     (ErrRouteNotFound → 404, ErrEmptySegment → 400, ...).
//  3. Anything else is a 500.
//
// Application handlers raise domain errors with [WithStatus]:
//
//	return httperror.WithStatus(errors.New("order missing"), http.StatusNotFound)
package httperror
