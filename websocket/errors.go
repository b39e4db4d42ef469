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

import "errors"

var (
	// ErrConnectionClosed indicates a send or receive on a connection
	// that already moved past OPEN.
	ErrConnectionClosed = errors.New("websocket connection closed")

	// ErrUncleanClose indicates the peer disconnected without a close
	// frame. The inbound stream terminates with this error; it is never
	// retried.
	ErrUncleanClose = errors.New("websocket closed uncleanly")

	// ErrRawProtocol indicates a structured operation on a connection
	// negotiated without a codec sub-protocol.
	ErrRawProtocol = errors.New("no codec sub-protocol negotiated")

	// ErrInboundBufferInvalid indicates a non-positive inbound buffer
	// size.
	ErrInboundBufferInvalid = errors.New("inbound buffer size must be positive")
)
