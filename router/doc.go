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

// Package router matches requests to handlers by path template, binds
// declared parameters, negotiates body codecs and writes responses.
//
// Route templates support literal segments, named captures (":id"),
// regex-constrained captures, glob segments ("wcard_?_", "*.tpl") and a
// terminal catch-all ("/*path") that captures the remainder of the path
// including slashes. Matching is most-specific-wins: literal beats a
// constrained capture, which beats a plain capture, which beats a glob,
// which beats the catch-all. A trailing-slash path is a distinct route
// from its non-slash counterpart.
//
// Percent-decoding is applied exactly once, per segment, by the router
// itself; a double-encoded sequence such as %252F stays literal text.
//
//	r := router.MustNew()
//	r.GET("/users/:id", getUser,
//		router.Params(binding.Path("id", binding.Int64)),
//		router.Produces(codec.MediaTypeJSON),
//	)
//	log.Fatal(r.Start(":8080"))
//
// The router serves HTTP/1.1 by default and HTTP/2 cleartext when
// configured with WithH2C. Configuration happens before the first request;
// after serving starts the route table is immutable.
package router
