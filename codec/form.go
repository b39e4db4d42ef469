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
	"net/url"
)

// Form is the application/x-www-form-urlencoded codec. Its value model is
// url.Values; pair order within a key is preserved, which is what lets a
// single-value bind select the first occurrence.
type Form struct{}

// MediaType returns "application/x-www-form-urlencoded".
func (Form) MediaType() string { return MediaTypeForm }

// Encode renders url.Values (or map[string][]string) in form encoding.
func (Form) Encode(v any) ([]byte, error) {
	switch t := v.(type) {
	case url.Values:
		return []byte(t.Encode()), nil
	case map[string][]string:
		return []byte(url.Values(t).Encode()), nil
	case map[string]string:
		values := make(url.Values, len(t))
		for k, val := range t {
			values.Set(k, val)
		}
		return []byte(values.Encode()), nil
	default:
		return nil, fmt.Errorf("form encode: unsupported value %T", v)
	}
}

// Decode parses form pairs into *url.Values or *any.
func (Form) Decode(data []byte, v any) error {
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return fmt.Errorf("form decode: %w", err)
	}
	switch dst := v.(type) {
	case *url.Values:
		*dst = values
		return nil
	case *any:
		*dst = values
		return nil
	default:
		return fmt.Errorf("form decode: unsupported destination %T", v)
	}
}

// ParseForm reads and parses a whole form body. The reader is fully
// consumed even if parsing fails, keeping the exchange drained.
func ParseForm(r io.Reader) (url.Values, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read form body: %w", err)
	}
	values, parseErr := url.ParseQuery(string(data))
	if parseErr != nil {
		return nil, fmt.Errorf("form decode: %w", parseErr)
	}
	return values, nil
}
