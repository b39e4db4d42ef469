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

// Package accesslog provides middleware for structured request logging.
//
// Each completed request logs one line with method, path, status,
// response size, duration, client address and user agent, through
// log/slog. Noisy paths like health checks can be excluded.
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	r := router.MustNew()
//	r.Use(accesslog.New(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/healthz"),
//	))
package accesslog

import (
	"log/slog"
	"time"

	"github.com/weavehttp/weave/router"
)

// New creates the access logging middleware.
func New(opts ...Option) router.HandlerFunc {
	cfg := &config{
		logger:       slog.Default(),
		excludePaths: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *router.Context) {
		path := c.Request.URL.Path
		if _, excluded := cfg.excludePaths[path]; excluded {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"duration", time.Since(start),
			"remote", c.Request.RemoteAddr,
			"user_agent", c.Request.UserAgent(),
		}
		if info, ok := c.Response.(router.ResponseInfo); ok {
			attrs = append(attrs, "status", info.StatusCode(), "size", info.Size())
		}
		cfg.logger.Info("request", attrs...)
	}
}

type config struct {
	logger       *slog.Logger
	excludePaths map[string]struct{}
}
