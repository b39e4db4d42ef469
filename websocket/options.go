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

package websocket

import (
	"log/slog"
	"net/http"

	"github.com/weavehttp/weave/codec"
)

// Option configures an Upgrader.
type Option func(*Upgrader)

// WithRegistry sets the codec registry consulted for sub-protocol codecs.
func WithRegistry(reg *codec.Registry) Option {
	return func(u *Upgrader) {
		if reg != nil {
			u.registry = reg
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Upgrader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithInboundBuffer sets how many inbound messages buffer before the read
// pump blocks and flow control pushes back on the peer.
func WithInboundBuffer(size int) Option {
	return func(u *Upgrader) { u.inboundBuffer = size }
}

// WithCloseOnComplete controls whether exhausting an outbound stream
// sends a close frame. Default true.
func WithCloseOnComplete(enable bool) Option {
	return func(u *Upgrader) { u.closeOnComplete = enable }
}

// WithCloseCode sets the close code sent on stream completion. Default
// 1000 (normal closure).
func WithCloseCode(code int) Option {
	return func(u *Upgrader) { u.closeCode = code }
}

// WithSubprotocol maps a sub-protocol token to the media type whose codec
// handles its messages. "json" maps to application/json out of the box.
func WithSubprotocol(token, mediaType string) Option {
	return func(u *Upgrader) { u.protocols[token] = mediaType }
}

// WithCheckOrigin sets the handshake origin check. The default accepts
// same-origin requests only.
func WithCheckOrigin(check func(*http.Request) bool) Option {
	return func(u *Upgrader) { u.checkOrigin = check }
}
