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
	"encoding/json"
	"fmt"
	"io"
)

// JSON is the application/json codec. Collections encode as JSON arrays
// and maps/structs as JSON objects.
//
// JSON implements [StreamDecoder]: a body holding concatenated JSON
// documents decodes incrementally, and a single-shaped bind keeps only the
// first document while the remainder is drained.
type JSON struct{}

// MediaType returns "application/json".
func (JSON) MediaType() string { return MediaTypeJSON }

// Encode marshals v.
func (JSON) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode unmarshals data into v.
func (JSON) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// DecodeFirst decodes the first JSON document from r and drains the rest.
func (JSON) DecodeFirst(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	// Remaining concatenated documents are discarded, not an error.
	_, err := io.Copy(io.Discard, dec.Buffered())
	if err == nil {
		_, err = io.Copy(io.Discard, r)
	}
	return err
}

// DecodeStream decodes concatenated JSON documents one by one, yielding
// each before reading the next. It never buffers the whole body.
func (JSON) DecodeStream(r io.Reader, next func() any, each func(any) error) error {
	dec := json.NewDecoder(r)
	for {
		v := next()
		if err := dec.Decode(v); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode json stream: %w", err)
		}
		if err := each(v); err != nil {
			return err
		}
	}
}

// DecodeArrayStream streams the elements of one JSON array without
// materializing the array: it consumes the opening bracket, yields each
// element, then consumes the closing bracket.
func DecodeArrayStream(r io.Reader, next func() any, each func(any) error) error {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode json array: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("decode json array: expected '[', got %v", tok)
	}
	for dec.More() {
		v := next()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("decode json array element: %w", err)
		}
		if err := each(v); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode json array: %w", err)
	}
	return nil
}
