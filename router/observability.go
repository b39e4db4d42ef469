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

import (
	"context"
	"net/http"
)

// ObservabilityRecorder provides request lifecycle hooks. Implementations
// typically combine metrics, tracing and access logging.
//
// Lifecycle:
//  1. OnRequestStart(ctx, req) returns an enriched context (e.g. with a
//     trace span) and an opaque state token. A nil token excludes the
//     request from the remaining hooks; the enriched context still applies
//     so downstream propagation keeps working on excluded paths.
//  2. The response writer already implements [ResponseInfo]; recorders
//     read status and size from it in OnRequestEnd.
//  3. OnRequestEnd receives the matched route pattern, not the raw path,
//     so metric cardinality stays bounded.
//
// All methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)
	OnRequestEnd(ctx context.Context, state any, info ResponseInfo, routePattern string)
}
