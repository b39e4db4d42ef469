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
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/weavehttp/weave/codec"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Upgrader performs WebSocket handshakes and negotiates the sub-protocol
// that selects the message codec. Safe for concurrent use once
// constructed.
type Upgrader struct {
	registry        *codec.Registry
	logger          *slog.Logger
	protocols       map[string]string
	inboundBuffer   int
	closeOnComplete bool
	closeCode       int
	checkOrigin     func(*http.Request) bool
}

// NewUpgrader creates an Upgrader with the given options. Returns an
// error when the configuration is invalid.
func NewUpgrader(opts ...Option) (*Upgrader, error) {
	u := &Upgrader{
		registry:        codec.NewRegistry(),
		logger:          noopLogger,
		protocols:       map[string]string{"json": codec.MediaTypeJSON},
		inboundBuffer:   16,
		closeOnComplete: true,
		closeCode:       websocket.CloseNormalClosure,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.inboundBuffer <= 0 {
		return nil, ErrInboundBufferInvalid
	}
	return u, nil
}

// MustNewUpgrader creates an Upgrader, panicking on invalid
// configuration.
func MustNewUpgrader(opts ...Option) *Upgrader {
	u, err := NewUpgrader(opts...)
	if err != nil {
		panic(fmt.Sprintf("websocket.MustNewUpgrader: %v", err))
	}
	return u
}

// Upgrade completes the WebSocket handshake and returns the live
// connection with its pumps running.
//
// The first sub-protocol token offered by the client that maps to a
// registered codec is accepted and echoed in the handshake; with no
// recognized token the connection runs in raw passthrough mode and no
// sub-protocol is confirmed.
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	var c codec.Codec
	chosen := ""
	for _, token := range websocket.Subprotocols(r) {
		mediaType, known := u.protocols[token]
		if !known {
			continue
		}
		registered, err := u.registry.Require(mediaType)
		if err != nil {
			return nil, fmt.Errorf("sub-protocol %q: %w", token, err)
		}
		c = registered
		chosen = token
		break
	}

	gu := websocket.Upgrader{CheckOrigin: u.checkOrigin}
	if chosen != "" {
		gu.Subprotocols = []string{chosen}
	}
	ws, err := gu.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket upgrade: %w", err)
	}

	u.logger.Debug("websocket connection open",
		"remote", ws.RemoteAddr().String(), "subprotocol", chosen)
	return newConn(ws, c, u), nil
}
