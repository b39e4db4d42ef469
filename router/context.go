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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	"github.com/weavehttp/weave/binding"
	"github.com/weavehttp/weave/codec"
	"github.com/weavehttp/weave/httperror"
)

// HandlerFunc processes one exchange. Handlers report failures through
// Context.Error; the response writer maps collected errors to statuses
// after the chain completes.
type HandlerFunc func(c *Context)

// Context is the live per-request exchange: the matched route, extracted
// path captures, bound parameter values, the single-consumption body
// stream and the response sink. A Context is valid only for the duration
// of its request.
type Context struct {
	// Request is the inbound request. The body must be consumed through
	// the Body* methods so the one-consumer rule can be enforced.
	Request *http.Request

	// Response is the response sink.
	Response http.ResponseWriter

	// Params holds capture overflow when a route has more than eight
	// captures. Rare; the common case uses the fixed arrays.
	Params map[string]string

	router *Router
	route  *Route

	paramKeys   [8]string
	paramValues [8]string
	paramCount  int

	bound map[string]binding.Value

	handlers []HandlerFunc
	index    int
	aborted  bool

	bodyConsumed bool
	errs         []error
}

func newContext(w http.ResponseWriter, req *http.Request, r *Router) *Context {
	return &Context{Request: req, Response: w, router: r, index: -1}
}

// Next executes the remaining handlers in the chain. Middleware calls it
// to hand off; it returns when the rest of the chain completes.
func (c *Context) Next() {
	c.index++
	for c.index < len(c.handlers) {
		if c.aborted {
			return
		}
		c.handlers[c.index](c)
		c.index++
	}
}

// Abort stops the remaining handler chain. The current handler finishes.
func (c *Context) Abort() { c.aborted = true }

// IsAborted reports whether the chain was aborted.
func (c *Context) IsAborted() bool { return c.aborted }

// Route returns the matched route, nil before matching.
func (c *Context) Route() *Route { return c.route }

func (c *Context) setParam(key, value string) {
	if c.paramCount < len(c.paramKeys) {
		c.paramKeys[c.paramCount] = key
		c.paramValues[c.paramCount] = value
		c.paramCount++
		return
	}
	if c.Params == nil {
		c.Params = make(map[string]string, 2)
	}
	c.Params[key] = value
}

// Param returns a raw path capture by name, "" when absent.
func (c *Context) Param(key string) string {
	for i := 0; i < c.paramCount; i++ {
		if c.paramKeys[i] == key {
			return c.paramValues[i]
		}
	}
	if c.Params != nil {
		return c.Params[key]
	}
	return ""
}

// captures snapshots the raw path captures for the binder.
func (c *Context) captures() map[string]string {
	m := make(map[string]string, c.paramCount+len(c.Params))
	for i := 0; i < c.paramCount; i++ {
		m[c.paramKeys[i]] = c.paramValues[i]
	}
	for k, v := range c.Params {
		m[k] = v
	}
	return m
}

// Bound returns an eagerly bound parameter value by name. The zero Value
// is returned for undeclared names.
func (c *Context) Bound(name string) binding.Value {
	return c.bound[name]
}

// Query returns the first query value for key.
func (c *Context) Query(key string) string {
	return c.Request.URL.Query().Get(key)
}

// QueryDefault returns the first query value for key, or def when absent.
func (c *Context) QueryDefault(key, def string) string {
	values := c.Request.URL.Query()
	if _, ok := values[key]; !ok {
		return def
	}
	return values.Get(key)
}

// Header sets a response header.
func (c *Context) Header(key, value string) {
	c.Response.Header().Set(key, value)
}

// GetCookie returns the named request cookie's value.
func (c *Context) GetCookie(name string) (string, error) {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// SetCookie adds a Set-Cookie response header.
func (c *Context) SetCookie(name, value string, maxAge int, path, domain string, secure, httpOnly bool) {
	if path == "" {
		path = "/"
	}
	http.SetCookie(c.Response, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     path,
		Domain:   domain,
		Secure:   secure,
		HttpOnly: httpOnly,
	})
}

// Status writes the status line with no body.
func (c *Context) Status(code int) {
	c.Response.WriteHeader(code)
}

// consumeBody enforces the one-consumer rule and returns the body stream.
func (c *Context) consumeBody() (io.ReadCloser, error) {
	if c.bodyConsumed {
		return nil, httperror.ErrBodyConsumed
	}
	c.bodyConsumed = true
	return c.Request.Body, nil
}

// BodyBytes consumes the whole body as raw bytes, bypassing codec lookup.
func (c *Context) BodyBytes() ([]byte, error) {
	body, err := c.consumeBody()
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// BodyString consumes the whole body as a string, bypassing codec lookup.
func (c *Context) BodyString() (string, error) {
	data, err := c.BodyBytes()
	return string(data), err
}

// DecodeBody consumes the body according to the route's declared body
// spec (or the given override) and the request content type. Single-shaped
// binds against multi-valued bodies keep the first element and drain the
// rest.
func (c *Context) DecodeBody() (any, error) {
	if c.route == nil || !c.route.HasBody {
		return nil, fmt.Errorf("route declares no body spec")
	}
	return c.DecodeBodyAs(c.route.Body)
}

// DecodeBodyAs consumes the body with an explicit spec.
func (c *Context) DecodeBodyAs(spec codec.BodySpec) (any, error) {
	body, err := c.consumeBody()
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return codec.DecodeBody(c.router.registry, spec, c.Request.Header.Get("Content-Type"), body)
}

// BodyStream consumes a stream-shaped body incrementally, invoking each
// per decoded element without buffering the whole body.
func (c *Context) BodyStream(each func(any) error) error {
	if c.route == nil || !c.route.HasBody {
		return fmt.Errorf("route declares no body spec")
	}
	body, err := c.consumeBody()
	if err != nil {
		return err
	}
	defer body.Close()
	return codec.DecodeBodyStream(c.router.registry, c.route.Body,
		c.Request.Header.Get("Content-Type"), body, each)
}

// Multipart consumes the body as a single-pass multipart/form-data
// reader.
func (c *Context) Multipart() (*codec.MultipartReader, error) {
	body, err := c.consumeBody()
	if err != nil {
		return nil, err
	}
	return codec.NewMultipartReader(c.Request.Header.Get("Content-Type"), body, c.router.registry)
}

// String writes a text/plain response with an explicit Content-Length.
func (c *Context) String(code int, value string) error {
	return c.Data(code, "text/plain; charset=utf-8", []byte(value))
}

// JSON writes an application/json response with an explicit
// Content-Length.
func (c *Context) JSON(code int, v any) error {
	data, err := codec.JSON{}.Encode(v)
	if err != nil {
		return err
	}
	return c.Data(code, "application/json; charset=utf-8", data)
}

// Data writes raw bytes. An empty contentType omits the Content-Type
// header entirely rather than setting a default.
func (c *Context) Data(code int, contentType string, data []byte) error {
	h := c.Response.Header()
	if contentType != "" {
		h.Set("Content-Type", contentType)
	} else {
		// Suppress net/http content sniffing so the header stays absent.
		h["Content-Type"] = nil
	}
	h.Set("Content-Length", strconv.Itoa(len(data)))
	c.Response.WriteHeader(code)
	_, err := c.Response.Write(data)
	return err
}

// DataFromReader streams from r. A negative contentLength leaves the
// header unset so the transport frames the body as unbounded.
func (c *Context) DataFromReader(code int, contentLength int64, contentType string, r io.Reader) error {
	h := c.Response.Header()
	if contentType != "" {
		h.Set("Content-Type", contentType)
	} else {
		h["Content-Type"] = nil
	}
	if contentLength >= 0 {
		h.Set("Content-Length", strconv.FormatInt(contentLength, 10))
	}
	c.Response.WriteHeader(code)
	_, err := io.Copy(c.Response, r)
	return err
}

// NoContent writes 204 with no body.
func (c *Context) NoContent() {
	c.Response.WriteHeader(http.StatusNoContent)
}

// Respond writes a single buffered value through content negotiation:
// the route's produced types reordered by the Accept header select the
// encoder and Content-Type, and Content-Length is set because the full
// body size is known.
//
// When the route declares no produced types, a string or byte value is
// written raw with no Content-Type header at all; any other value is a
// server configuration fault.
func (c *Context) Respond(code int, v any) error {
	enc, contentType, ok, err := codec.Negotiate(c.router.registry, c.produces(), c.Request.Header.Get("Accept"))
	if err != nil {
		return err
	}
	if !ok {
		switch t := v.(type) {
		case nil:
			c.Response.WriteHeader(code)
			return nil
		case string:
			return c.Data(code, "", []byte(t))
		case []byte:
			return c.Data(code, "", t)
		default:
			return fmt.Errorf("%w: no produced media type declared for %T", httperror.ErrCodecUnavailable, v)
		}
	}

	data, err := enc.Encode(v)
	if err != nil {
		return err
	}
	return c.Data(code, contentType, data)
}

// RespondStream writes an unbounded sequence through content negotiation.
// Elements are encoded one at a time and flushed as produced; no
// Content-Length is ever computed, so HTTP/1.1 switches to chunked
// framing and HTTP/2 omits the length.
//
// next returns the next element, false when the stream is exhausted, or
// an error to abort.
func (c *Context) RespondStream(code int, next func() (any, bool, error)) error {
	enc, contentType, ok, err := codec.Negotiate(c.router.registry, c.produces(), c.Request.Header.Get("Accept"))
	if err != nil {
		return err
	}
	if !ok {
		enc, contentType = codec.Text{}, ""
	}

	h := c.Response.Header()
	if contentType != "" {
		h.Set("Content-Type", contentType)
	} else {
		h["Content-Type"] = nil
	}
	c.Response.WriteHeader(code)

	flusher, _ := c.Response.(http.Flusher)
	for {
		v, more, err := next()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		data, err := enc.Encode(v)
		if err != nil {
			return err
		}
		if _, err := c.Response.Write(data); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// SSE writes the sequence as text/event-stream, one event per element.
// The element codec is the route's first produced type, text/plain when
// none is declared; it is applied to event payloads only, never the
// framing.
func (c *Context) SSE(code int, next func() (any, bool, error)) error {
	var enc codec.Codec = codec.Text{}
	if produces := c.produces(); len(produces) > 0 {
		e, err := c.router.registry.Require(produces[0])
		if err != nil {
			return err
		}
		enc = e
	}

	h := c.Response.Header()
	h.Set("Content-Type", codec.MediaTypeSSE)
	h.Set("Cache-Control", "no-cache")
	c.Response.WriteHeader(code)

	ew := codec.NewEventWriter(c.Response)
	for {
		v, more, err := next()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if ev, isEvent := v.(codec.Event); isEvent {
			if err := ew.WriteEvent(ev); err != nil {
				return err
			}
			continue
		}
		if err := ew.WriteValue(enc, v); err != nil {
			return err
		}
	}
}

func (c *Context) produces() []string {
	if c.route == nil {
		return nil
	}
	return c.route.Produces
}

// Error records a handler failure. After the chain completes, the first
// recorded error is mapped to its status (httperror.StatusOf) and written
// with the error message as the body, unless a response was already
// written.
func (c *Context) Error(err error) {
	if err == nil {
		return
	}
	c.errs = append(c.errs, err)
}

// Errors returns the recorded errors.
func (c *Context) Errors() []error { return c.errs }

// HasErrors reports whether any error was recorded.
func (c *Context) HasErrors() bool { return len(c.errs) > 0 }

// Logger returns the router's logger.
func (c *Context) Logger() *slog.Logger { return c.router.logger }

// RequestContext returns the request's context.
func (c *Context) RequestContext() context.Context { return c.Request.Context() }

// Span returns the current trace span from the request context. Without a
// configured tracer this is a no-op span.
func (c *Context) Span() trace.Span {
	return trace.SpanFromContext(c.Request.Context())
}

// TraceID returns the current trace ID, "" when not recording.
func (c *Context) TraceID() string {
	sc := c.Span().SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
