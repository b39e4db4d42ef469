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

package codec

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Event is one Server-Sent-Events event. Only non-empty fields are
// written; field order on the wire is fixed (event, id, retry, data) so
// the framing is byte-identical across transports.
type Event struct {
	Type  string
	ID    string
	Retry string
	Data  []byte
}

// EventWriter frames stream elements as SSE events. The element codec
// applies to the event payload only, never to the framing bytes.
type EventWriter struct {
	w       io.Writer
	flusher http.Flusher
}

// NewEventWriter wraps w. If w implements http.Flusher, every event is
// flushed as soon as it is framed, so an unbounded stream delivers
// elements as they are produced.
func NewEventWriter(w io.Writer) *EventWriter {
	ew := &EventWriter{w: w}
	if f, ok := w.(http.Flusher); ok {
		ew.flusher = f
	}
	return ew
}

// WriteEvent frames one event. Multi-line payloads become one data: line
// per payload line, per the SSE grammar.
func (ew *EventWriter) WriteEvent(e Event) error {
	var buf bytes.Buffer
	if e.Type != "" {
		fmt.Fprintf(&buf, "event: %s\n", e.Type)
	}
	if e.ID != "" {
		fmt.Fprintf(&buf, "id: %s\n", e.ID)
	}
	if e.Retry != "" {
		fmt.Fprintf(&buf, "retry: %s\n", e.Retry)
	}
	for _, line := range bytes.Split(e.Data, []byte("\n")) {
		fmt.Fprintf(&buf, "data: %s\n", line)
	}
	buf.WriteByte('\n')

	if _, err := ew.w.Write(buf.Bytes()); err != nil {
		return err
	}
	if ew.flusher != nil {
		ew.flusher.Flush()
	}
	return nil
}

// WriteValue encodes v with the element codec and frames it as one event.
func (ew *EventWriter) WriteValue(c Codec, v any) error {
	payload, err := c.Encode(v)
	if err != nil {
		return err
	}
	return ew.WriteEvent(Event{Data: payload})
}
