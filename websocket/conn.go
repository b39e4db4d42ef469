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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/weavehttp/weave/codec"
)

// Connection states. Transitions only move forward: OPEN → CLOSING →
// CLOSED.
const (
	stateOpen int32 = iota
	stateClosing
	stateClosed
)

// frame is one queued outbound wire message.
type frame struct {
	messageType int
	data        []byte
}

// Conn is a live WebSocket connection with independent inbound and
// outbound pumps. Inbound messages buffer in a bounded channel; when the
// consumer is slow the read pump blocks and transport flow control pushes
// back on the peer. All exported methods are safe for concurrent use.
type Conn struct {
	ws     *websocket.Conn
	codec  codec.Codec
	logger *slog.Logger

	closeOnComplete bool
	closeCode       int

	state atomic.Int32

	inbound  chan Message
	outbound chan frame

	done chan struct{} // closed when the read pump exits
	term chan struct{} // closed by Shutdown
	stop sync.Once

	group   *errgroup.Group
	readErr error // set before inbound closes
}

func newConn(ws *websocket.Conn, c codec.Codec, u *Upgrader) *Conn {
	conn := &Conn{
		ws:              ws,
		codec:           c,
		logger:          u.logger,
		closeOnComplete: u.closeOnComplete,
		closeCode:       u.closeCode,
		inbound:         make(chan Message, u.inboundBuffer),
		outbound:        make(chan frame, u.inboundBuffer),
		done:            make(chan struct{}),
		term:            make(chan struct{}),
		group:           &errgroup.Group{},
	}
	conn.group.Go(conn.readPump)
	conn.group.Go(conn.writePump)
	return conn
}

// Structured reports whether a codec sub-protocol was negotiated.
func (c *Conn) Structured() bool { return c.codec != nil }

// Subprotocol returns the negotiated sub-protocol token, "" for raw
// passthrough.
func (c *Conn) Subprotocol() string { return c.ws.Subprotocol() }

// readPump delivers inbound messages until the peer closes or the
// connection faults. It owns closing the inbound channel and the
// underlying socket.
func (c *Conn) readPump() error {
	defer func() {
		close(c.done)
		close(c.inbound)
		_ = c.ws.Close()
	}()

	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			c.state.Store(stateClosed)
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				return nil
			}
			select {
			case <-c.term:
				// Local teardown, not a peer fault.
				return nil
			default:
			}
			c.readErr = fmt.Errorf("%w: %v", ErrUncleanClose, err)
			return c.readErr
		}
		if mt != TextMessage && mt != BinaryMessage {
			continue
		}
		select {
		case c.inbound <- Message{Type: mt, Data: data, c: c.codec}:
		case <-c.term:
			return nil
		}
	}
}

// writePump writes queued frames in order. The close frame travels the
// same queue so it never overtakes application messages.
func (c *Conn) writePump() error {
	for {
		select {
		case f := <-c.outbound:
			if err := c.ws.WriteMessage(f.messageType, f.data); err != nil {
				return fmt.Errorf("websocket write: %w", err)
			}
		case <-c.done:
			return nil
		}
	}
}

// Receive returns the next inbound message. After the connection ends it
// keeps draining buffered messages, then reports [ErrUncleanClose] for an
// abrupt disconnect or [ErrConnectionClosed] for a clean one.
func (c *Conn) Receive(ctx context.Context) (Message, error) {
	select {
	case m, ok := <-c.inbound:
		if !ok {
			if c.readErr != nil {
				return Message{}, c.readErr
			}
			return Message{}, ErrConnectionClosed
		}
		return m, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Send writes one value as one message: raw bytes go out as a binary
// message, a string as a text message, anything else through the
// negotiated codec.
func (c *Conn) Send(v any) error {
	f, err := c.encode(v)
	if err != nil {
		return err
	}
	return c.enqueue(f)
}

// SendStream writes each element of the sequence as its own message.
// Exhausting the sequence closes the connection with the configured close
// code unless close-on-complete is disabled.
//
// next returns the next element, false when the sequence is exhausted, or
// an error to abort.
func (c *Conn) SendStream(next func() (any, bool, error)) error {
	for {
		v, more, err := next()
		if err != nil {
			return err
		}
		if !more {
			return c.complete()
		}
		if err := c.Send(v); err != nil {
			return err
		}
	}
}

// SendBatched writes a sequence of sequences: each inner sequence
// concatenates into one message payload. The batch is binary only when
// every element is raw bytes. Completion follows the same close rule as
// SendStream.
func (c *Conn) SendBatched(next func() ([]any, bool, error)) error {
	for {
		batch, more, err := next()
		if err != nil {
			return err
		}
		if !more {
			return c.complete()
		}
		if len(batch) == 0 {
			continue
		}

		var payload bytes.Buffer
		messageType := BinaryMessage
		for _, v := range batch {
			f, err := c.encode(v)
			if err != nil {
				return err
			}
			if f.messageType != BinaryMessage {
				messageType = TextMessage
			}
			payload.Write(f.data)
		}
		if err := c.enqueue(frame{messageType: messageType, data: payload.Bytes()}); err != nil {
			return err
		}
	}
}

// Close sends a close frame and moves the connection to CLOSING. Further
// application sends fail; buffered inbound messages keep draining until
// the peer's close is acknowledged.
func (c *Conn) Close(code int, reason string) error {
	if !c.state.CompareAndSwap(stateOpen, stateClosing) {
		return ErrConnectionClosed
	}
	payload := websocket.FormatCloseMessage(code, reason)
	select {
	case c.outbound <- frame{messageType: websocket.CloseMessage, data: payload}:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	}
}

// Shutdown tears the connection down immediately, releasing both pumps.
// Use for cancellation; Close is the graceful path.
func (c *Conn) Shutdown() error {
	c.state.Store(stateClosed)
	var err error
	c.stop.Do(func() {
		close(c.term)
		err = c.ws.Close()
	})
	return err
}

// Wait blocks until both pumps have exited and returns the first pump
// error, nil after a clean close.
func (c *Conn) Wait() error { return c.group.Wait() }

func (c *Conn) complete() error {
	if !c.closeOnComplete {
		return nil
	}
	return c.Close(c.closeCode, "")
}

func (c *Conn) encode(v any) (frame, error) {
	switch t := v.(type) {
	case []byte:
		return frame{messageType: BinaryMessage, data: t}, nil
	case string:
		return frame{messageType: TextMessage, data: []byte(t)}, nil
	}
	if c.codec == nil {
		return frame{}, fmt.Errorf("send %T: %w", v, ErrRawProtocol)
	}
	data, err := c.codec.Encode(v)
	if err != nil {
		return frame{}, fmt.Errorf("encode message: %w", err)
	}
	return frame{messageType: TextMessage, data: data}, nil
}

func (c *Conn) enqueue(f frame) error {
	if c.state.Load() != stateOpen {
		return ErrConnectionClosed
	}
	select {
	case c.outbound <- f:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	}
}
