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

// Package websocket adapts WebSocket connections to typed message
// streams.
//
// An [Upgrader] negotiates the sub-protocol during the handshake; the
// chosen token selects the message codec. With no sub-protocol the
// connection passes raw text and binary payloads through untouched; a
// recognized token (such as "json") decodes and encodes structured
// values through the codec registry.
//
// A [Conn] runs two pumps over the underlying connection, so inbound and
// outbound progress independently. Inbound messages buffer in a bounded
// channel until received; when the consumer is slow the read pump blocks
// and transport flow control pushes back on the peer. Outbound accepts a
// single value ([Conn.Send]), a sequence sent one message per element
// ([Conn.SendStream]), or a sequence of sequences where each inner
// sequence concatenates into one message payload ([Conn.SendBatched]).
//
// Exhausting an outbound stream closes the connection with the
// configured close code unless close-on-complete is disabled. After a
// close frame is sent no further application messages may be sent, but
// buffered inbound messages keep draining until the peer's close is
// acknowledged. An abrupt peer disconnect terminates the inbound stream
// with [ErrUncleanClose].
package websocket
