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
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack is the application/msgpack codec. MessagePack frames values
// back to back, so concatenated payloads stream the same way JSON
// documents do.
type MsgPack struct{}

// MediaType returns "application/msgpack".
func (MsgPack) MediaType() string { return MediaTypeMsgPack }

// Encode marshals v as MessagePack.
func (MsgPack) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode unmarshals MessagePack into v.
func (MsgPack) Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// DecodeFirst decodes the first MessagePack value and drains the rest.
func (MsgPack) DecodeFirst(r io.Reader, v any) error {
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode msgpack: %w", err)
	}
	_, err := io.Copy(io.Discard, r)
	return err
}

// DecodeStream decodes back-to-back MessagePack values one by one.
func (MsgPack) DecodeStream(r io.Reader, next func() any, each func(any) error) error {
	dec := msgpack.NewDecoder(r)
	for {
		v := next()
		if err := dec.Decode(v); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode msgpack stream: %w", err)
		}
		if err := each(v); err != nil {
			return err
		}
	}
}
