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

// Package recovery provides middleware for recovering from panics in
// request handlers.
//
// A panic in a handler is caught, logged with a stack trace, marked on
// the active trace span, and answered with a 500 instead of tearing the
// server down. Register it first so it covers the whole chain:
//
//	r := router.MustNew()
//	r.Use(recovery.New())
package recovery

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/weavehttp/weave/router"
)

// New creates the recovery middleware.
func New(opts ...Option) router.HandlerFunc {
	cfg := &config{
		logger:     slog.Default(),
		stackTrace: true,
		stackSize:  4 << 10,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.handler == nil {
		cfg.handler = func(c *router.Context, _ any) {
			_ = c.String(http.StatusInternalServerError, "Internal Server Error")
		}
	}

	return func(c *router.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			var stack []byte
			if cfg.stackTrace {
				stack = make([]byte, cfg.stackSize)
				stack = stack[:runtime.Stack(stack, false)]
			}

			if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
				span.SetAttributes(
					attribute.Bool("exception.escaped", true),
					attribute.String("exception.type", fmt.Sprintf("%T", r)),
					attribute.String("exception.message", fmt.Sprint(r)),
				)
			}

			if cfg.logger != nil {
				cfg.logger.Error("panic recovered",
					"panic", fmt.Sprint(r),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(stack),
				)
			}

			cfg.handler(c, r)
			c.Abort()
		}()

		c.Next()
	}
}

type config struct {
	logger     *slog.Logger
	handler    func(c *router.Context, err any)
	stackTrace bool
	stackSize  int
}
