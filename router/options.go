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
	"log/slog"
	"time"

	"github.com/weavehttp/weave/codec"
)

// Option configures a Router at construction time.
type Option func(*Router)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRegistry replaces the codec registry. The default carries the
// built-in codecs.
func WithRegistry(reg *codec.Registry) Option {
	return func(r *Router) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithObservability installs a request lifecycle recorder.
func WithObservability(rec ObservabilityRecorder) Option {
	return func(r *Router) { r.observability = rec }
}

// WithH2C enables HTTP/2 cleartext upgrade on Start. Multiplexed
// exchanges share one connection; each still owns its own body and
// response sub-streams.
func WithH2C(enable bool) Option {
	return func(r *Router) { r.h2c = enable }
}

// WithServerTimeouts configures the HTTP server's read-header, read,
// write and idle timeouts used by Start.
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.timeouts = serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}

type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

func (t serverTimeouts) validate() error {
	for _, d := range []time.Duration{t.readHeader, t.read, t.write, t.idle} {
		if d < 0 {
			return ErrServerTimeoutInvalid
		}
	}
	return nil
}
