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

package recovery

import (
	"log/slog"

	"github.com/weavehttp/weave/router"
)

// Option configures the recovery middleware.
type Option func(*config)

// WithLogger sets the logger for panic reports.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithoutLogging disables panic logging. Useful in tests to keep output
// quiet.
func WithoutLogging() Option {
	return func(cfg *config) { cfg.logger = nil }
}

// WithHandler sets a custom handler for writing the error response.
//
// Example:
//
//	recovery.New(recovery.WithHandler(func(c *router.Context, err any) {
//	    _ = c.JSON(http.StatusInternalServerError, map[string]any{"error": "something went wrong"})
//	}))
func WithHandler(handler func(c *router.Context, err any)) Option {
	return func(cfg *config) { cfg.handler = handler }
}

// WithStackTrace enables or disables stack capture. Default true.
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) { cfg.stackTrace = enabled }
}

// WithStackSize sets the maximum captured stack size in bytes. Default
// 4KB.
func WithStackSize(size int) Option {
	return func(cfg *config) { cfg.stackSize = size }
}
