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

	"gopkg.in/yaml.v3"
)

// YAML is the application/yaml codec. Multi-document YAML streams decode
// document by document, so YAML bodies get the same shape semantics as
// JSON ones.
type YAML struct{}

// MediaType returns "application/yaml".
func (YAML) MediaType() string { return MediaTypeYAML }

// Encode marshals v as YAML.
func (YAML) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Decode unmarshals YAML into v.
func (YAML) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// DecodeFirst decodes the first YAML document and drains the rest.
func (YAML) DecodeFirst(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	_, err := io.Copy(io.Discard, r)
	return err
}

// DecodeStream decodes "---"-separated YAML documents one by one.
func (YAML) DecodeStream(r io.Reader, next func() any, each func(any) error) error {
	dec := yaml.NewDecoder(r)
	for {
		v := next()
		if err := dec.Decode(v); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode yaml stream: %w", err)
		}
		if err := each(v); err != nil {
			return err
		}
	}
}
