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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/weavehttp/weave/binding"
	"github.com/weavehttp/weave/codec"
	"github.com/weavehttp/weave/httperror"
)

// noopLogger is the default logger when none is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Router matches requests to routes and drives the bind → handle → write
// pipeline. Configure routes before serving; the route table is immutable
// once requests flow.
type Router struct {
	trees      map[string]*node
	middleware []HandlerFunc

	registry      *codec.Registry
	logger        *slog.Logger
	observability ObservabilityRecorder

	h2c      bool
	timeouts serverTimeouts
}

// New creates a Router with the given options. Returns an error when the
// configuration is invalid.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		trees:    make(map[string]*node, 8),
		registry: codec.NewRegistry(),
		logger:   noopLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.timeouts.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew creates a Router, panicking on invalid configuration. Use in
// main() or init() where panic on startup is acceptable.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

// Registry returns the router's codec registry, for registering custom
// codecs during configuration.
func (r *Router) Registry() *codec.Registry { return r.registry }

// Use appends middleware applied to routes registered after this call.
func (r *Router) Use(mw ...HandlerFunc) {
	r.middleware = append(r.middleware, mw...)
}

// Handle registers a route. Invalid templates and conflicting
// registrations panic: route tables are static configuration, and a bad
// table should fail at startup.
func (r *Router) Handle(method, path string, handler HandlerFunc, opts ...RouteOption) *Route {
	rt := &Route{Method: method, Pattern: path}
	for _, opt := range opts {
		opt(rt)
	}

	segments, trailingSlash, err := parseTemplate(path, rt.constraints)
	if err != nil {
		panic(fmt.Sprintf("router: %v", err))
	}
	rt.segments = segments
	rt.trailingSlash = trailingSlash

	chain := make([]HandlerFunc, 0, len(r.middleware)+1)
	chain = append(chain, slices.Clone(r.middleware)...)
	chain = append(chain, handler)
	rt.handlers = chain

	tree := r.trees[method]
	if tree == nil {
		tree = &node{}
		r.trees[method] = tree
	}
	if err := tree.addRoute(rt); err != nil {
		panic(fmt.Sprintf("router: %v: %v", ErrRouteConflict, err))
	}
	return rt
}

// GET registers a GET route.
func (r *Router) GET(path string, handler HandlerFunc, opts ...RouteOption) *Route {
	return r.Handle(http.MethodGet, path, handler, opts...)
}

// POST registers a POST route.
func (r *Router) POST(path string, handler HandlerFunc, opts ...RouteOption) *Route {
	return r.Handle(http.MethodPost, path, handler, opts...)
}

// PUT registers a PUT route.
func (r *Router) PUT(path string, handler HandlerFunc, opts ...RouteOption) *Route {
	return r.Handle(http.MethodPut, path, handler, opts...)
}

// DELETE registers a DELETE route.
func (r *Router) DELETE(path string, handler HandlerFunc, opts ...RouteOption) *Route {
	return r.Handle(http.MethodDelete, path, handler, opts...)
}

// PATCH registers a PATCH route.
func (r *Router) PATCH(path string, handler HandlerFunc, opts ...RouteOption) *Route {
	return r.Handle(http.MethodPatch, path, handler, opts...)
}

// HEAD registers a HEAD route.
func (r *Router) HEAD(path string, handler HandlerFunc, opts ...RouteOption) *Route {
	return r.Handle(http.MethodHead, path, handler, opts...)
}

// OPTIONS registers an OPTIONS route.
func (r *Router) OPTIONS(path string, handler HandlerFunc, opts ...RouteOption) *Route {
	return r.Handle(http.MethodOptions, path, handler, opts...)
}

// ServeHTTP implements http.Handler: match, bind eagerly, run the handler
// chain, then map any recorded error to a status if nothing was written.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rw := &responseWriter{ResponseWriter: w}

	var obsState any
	if r.observability != nil {
		enriched, state := r.observability.OnRequestStart(req.Context(), req)
		obsState = state
		if enriched != req.Context() {
			req = req.WithContext(enriched)
		}
	}

	c := newContext(rw, req, r)
	pattern := r.dispatch(c, rw, req)

	if r.observability != nil && obsState != nil {
		r.observability.OnRequestEnd(req.Context(), obsState, rw, pattern)
	}
}

// dispatch runs the request pipeline and returns the route pattern for
// observability ("_unmatched" when no route matched).
func (r *Router) dispatch(c *Context, rw *responseWriter, req *http.Request) string {
	segs, trailingSlash, err := splitRequestPath(req.URL.EscapedPath())
	if err != nil {
		r.writeError(rw, err)
		return "_unmatched"
	}

	var rt *Route
	if tree := r.trees[req.Method]; tree != nil {
		rt = tree.match(segs, trailingSlash, c)
	}
	if rt == nil {
		r.writeError(rw, httperror.ErrRouteNotFound)
		return "_unmatched"
	}

	c.route = rt
	c.handlers = rt.handlers

	if err := r.bindParams(c); err != nil {
		r.writeError(rw, err)
		return rt.Pattern
	}

	c.Next()

	if !rw.Written() && c.HasErrors() {
		r.writeError(rw, c.Errors()[0])
	} else if !rw.Written() {
		rw.WriteHeader(http.StatusOK)
	}
	return rt.Pattern
}

// bindParams resolves the route's declared non-body parameters eagerly.
// Form-sourced specs force the body to be parsed here, which counts as
// the exchange's one body consumption.
func (r *Router) bindParams(c *Context) error {
	rt := c.route
	if len(rt.Params) == 0 {
		return nil
	}

	breq := binding.NewRequest(c.Request, c.captures())

	if hasFormSource(rt.Params) {
		contentType := codec.CanonicalMediaType(c.Request.Header.Get("Content-Type"))
		if contentType == codec.MediaTypeForm {
			body, err := c.consumeBody()
			if err != nil {
				return err
			}
			defer body.Close()
			form, err := codec.ParseForm(body)
			if err != nil {
				return httperror.WithStatus(err, http.StatusBadRequest)
			}
			breq.SetForm(form)
		}
	}

	values, err := binding.Bind(breq, rt.Params)
	if err != nil {
		return err
	}

	c.bound = make(map[string]binding.Value, len(values))
	for _, v := range values {
		c.bound[v.Name] = v
	}
	return nil
}

func hasFormSource(specs []binding.Spec) bool {
	for _, s := range specs {
		if s.Source == binding.SourceForm {
			return true
		}
	}
	return false
}

// writeError maps an error to its status and writes the error message as
// a plain-text body. Handler domain errors keep their own message with no
// codec applied.
func (r *Router) writeError(rw *responseWriter, err error) {
	status := httperror.StatusOf(err)
	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed", "status", status, "error", err)
	}
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rw.WriteHeader(status)
	_, _ = rw.Write([]byte(err.Error()))
}

// splitRequestPath splits the escaped request path into segments and
// percent-decodes each exactly once. An interior empty segment ("//") is
// a 400-class error; a trailing empty segment marks the trailing-slash
// route variant.
func splitRequestPath(escaped string) ([]string, bool, error) {
	if escaped == "" || escaped == "/" {
		return nil, false, nil
	}
	if escaped[0] != '/' {
		return nil, false, httperror.ErrRouteNotFound
	}

	raw := strings.Split(escaped[1:], "/")
	trailingSlash := false
	if last := len(raw) - 1; raw[last] == "" {
		trailingSlash = true
		raw = raw[:last]
	}

	segs := make([]string, len(raw))
	for i, s := range raw {
		if s == "" {
			return nil, false, httperror.ErrEmptySegment
		}
		// Exactly one level of decoding: %2520 stays "%20", %252F stays
		// "%2F". A second decode here would reopen encoded-traversal holes.
		decoded, err := url.PathUnescape(s)
		if err != nil {
			return nil, false, httperror.WithStatus(err, http.StatusBadRequest)
		}
		segs[i] = decoded
	}
	return segs, trailingSlash, nil
}
