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

	"github.com/BurntSushi/toml"
)

// TOML is the application/toml codec. TOML has no document-stream framing,
// so it participates only in single- and list-shaped bodies.
type TOML struct{}

// MediaType returns "application/toml".
func (TOML) MediaType() string { return MediaTypeTOML }

// Encode marshals v as TOML.
func (TOML) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode unmarshals TOML into v.
func (TOML) Decode(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}
