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

	"github.com/gorilla/websocket"

	"github.com/weavehttp/weave/codec"
)

// Message type codes, per RFC 6455.
const (
	TextMessage   = websocket.TextMessage
	BinaryMessage = websocket.BinaryMessage
)

// Message is one fully assembled inbound message. Data holds the raw
// payload; the reductions interpret it.
type Message struct {
	// Type is TextMessage or BinaryMessage.
	Type int

	// Data is the raw message payload.
	Data []byte

	c codec.Codec
}

// Text reduces the message to its payload as a string.
func (m Message) Text() string { return string(m.Data) }

// Decode reduces the message to a structured value using the connection's
// negotiated codec. Fails with [ErrRawProtocol] on a connection without
// one.
func (m Message) Decode(v any) error {
	if m.c == nil {
		return fmt.Errorf("decode message: %w", ErrRawProtocol)
	}
	return m.c.Decode(m.Data, v)
}
