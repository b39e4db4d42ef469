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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventWriterFraming(t *testing.T) {
	t.Parallel()

	t.Run("data only", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ew := NewEventWriter(&buf)

		require.NoError(t, ew.WriteEvent(Event{Data: []byte("hello")}))
		assert.Equal(t, "data: hello\n\n", buf.String())
	})

	t.Run("full field order", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ew := NewEventWriter(&buf)

		require.NoError(t, ew.WriteEvent(Event{Type: "greeting", ID: "1", Data: []byte("hi")}))
		assert.Equal(t, "event: greeting\nid: 1\ndata: hi\n\n", buf.String())
	})

	t.Run("multi-line payload", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ew := NewEventWriter(&buf)

		require.NoError(t, ew.WriteEvent(Event{Data: []byte("line1\nline2")}))
		assert.Equal(t, "data: line1\ndata: line2\n\n", buf.String())
	})

	t.Run("consecutive events keep boundaries", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ew := NewEventWriter(&buf)

		require.NoError(t, ew.WriteEvent(Event{Data: []byte("one")}))
		require.NoError(t, ew.WriteEvent(Event{Data: []byte("two")}))
		assert.Equal(t, "data: one\n\ndata: two\n\n", buf.String())
	})
}

func TestEventWriterValueCodec(t *testing.T) {
	t.Parallel()

	t.Run("json payload", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ew := NewEventWriter(&buf)

		require.NoError(t, ew.WriteValue(JSON{}, map[string]int{"n": 1}))
		assert.Equal(t, "data: {\"n\":1}\n\n", buf.String())
	})

	t.Run("text payload applies only to data", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ew := NewEventWriter(&buf)

		require.NoError(t, ew.WriteValue(Text{}, []string{"a", "b"}))
		assert.Equal(t, "data: a, b\n\n", buf.String())
	})
}
