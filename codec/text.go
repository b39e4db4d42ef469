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
	"reflect"
	"sort"
	"strings"
)

// Text is the text/plain codec.
//
// Rendering rules: strings and byte slices pass through; other slices
// render comma-space-joined ("a, b, c"); maps render as "{k=v, k2=v2}"
// with keys sorted for determinism; everything else falls back to
// fmt.Sprint.
type Text struct{}

// MediaType returns "text/plain".
func (Text) MediaType() string { return MediaTypeText }

// Encode renders v as plain text.
func (Text) Encode(v any) ([]byte, error) {
	return []byte(RenderText(v)), nil
}

// Decode stores the raw text into *string or *[]byte.
func (Text) Decode(data []byte, v any) error {
	switch dst := v.(type) {
	case *string:
		*dst = string(data)
		return nil
	case *[]byte:
		*dst = data
		return nil
	case *any:
		*dst = string(data)
		return nil
	default:
		return fmt.Errorf("text decode: unsupported destination %T", v)
	}
}

// RenderText renders any value using the text/plain rules.
func RenderText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = RenderText(e)
		}
		return strings.Join(parts, ", ")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = RenderText(rv.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	case reflect.Map:
		keys := rv.MapKeys()
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%v=%v", k.Interface(), rv.MapIndex(k).Interface()))
		}
		sort.Strings(pairs)
		return "{" + strings.Join(pairs, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
