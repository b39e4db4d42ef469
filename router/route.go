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
	"github.com/weavehttp/weave/binding"
	"github.com/weavehttp/weave/codec"
)

// Route is one registered route: its template, declared parameter specs,
// body spec and produced media types. Routes are immutable after
// registration and owned by the router.
type Route struct {
	// Method is the HTTP method.
	Method string

	// Pattern is the original template string, for observability.
	Pattern string

	// Params are the declared non-body parameter specs, bound eagerly
	// before the handler runs.
	Params []binding.Spec

	// Body is the declared body spec; HasBody gates it.
	Body    codec.BodySpec
	HasBody bool

	// Produces lists the declared response media types in preference
	// order. Empty means responses carry no Content-Type unless a render
	// method sets one explicitly.
	Produces []string

	handlers      []HandlerFunc
	segments      []segment
	trailingSlash bool
	constraints   map[string]string
}

// RouteOption configures a route at registration time.
type RouteOption func(*Route)

// Params declares the route's non-body parameter specs.
func Params(specs ...binding.Spec) RouteOption {
	return func(rt *Route) { rt.Params = specs }
}

// Body declares the route's body spec.
func Body(spec codec.BodySpec) RouteOption {
	return func(rt *Route) {
		rt.Body = spec
		rt.HasBody = true
	}
}

// Produces declares the response media types in preference order.
func Produces(mediaTypes ...string) RouteOption {
	return func(rt *Route) { rt.Produces = mediaTypes }
}

// Constraint attaches a regex constraint to a named capture. The pattern
// must match the full segment; a non-matching segment means the route is
// not matched at all (404), never a binding error.
//
// Example:
//
//	r.GET("/users/:id", getUser, router.Constraint("id", `\d+`))
func Constraint(param, pattern string) RouteOption {
	return func(rt *Route) {
		if rt.constraints == nil {
			rt.constraints = make(map[string]string, 2)
		}
		rt.constraints[param] = pattern
	}
}
