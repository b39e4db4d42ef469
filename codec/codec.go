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
	"mime"
	"strings"

	"github.com/weavehttp/weave/httperror"
)

// Codec encodes and decodes single values for one media type.
type Codec interface {
	// MediaType returns the canonical media type this codec serves,
	// without parameters.
	MediaType() string

	// Encode renders a value as wire bytes.
	Encode(v any) ([]byte, error)

	// Decode parses wire bytes into v, which must be a non-nil pointer.
	Decode(data []byte, v any) error
}

// StreamDecoder is implemented by codecs whose wire format can frame a
// sequence of documents (JSON today). The router uses it for stream- and
// single-shaped body binds so no shape ever buffers more than it must.
type StreamDecoder interface {
	// DecodeFirst decodes the first logical document from r and fully
	// drains and discards the remainder of the stream.
	DecodeFirst(r io.Reader, v any) error

	// DecodeStream decodes documents incrementally. next allocates the
	// destination for each element; each consumes it. Decoding stops at
	// EOF or the first error from each.
	DecodeStream(r io.Reader, next func() any, each func(any) error) error
}

// Registry maps media types to codecs. The zero value is unusable; use
// [NewRegistry], which installs the built-in codecs, and Register to add
// or replace entries. Lookup is safe for concurrent use once registration
// is done, matching the router's configure-then-serve lifecycle.
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry returns a Registry with the built-in codecs installed.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]Codec, 8)}
	for _, c := range []Codec{
		Text{}, JSON{}, Form{}, YAML{}, MsgPack{}, TOML{},
	} {
		r.Register(c)
	}
	return r
}

// Register installs a codec for its media type, replacing any previous
// registration. Must only be called during the configuration phase.
func (r *Registry) Register(c Codec) {
	r.codecs[c.MediaType()] = c
}

// Lookup resolves a media type to its codec. Parameters (charset,
// boundary) are stripped before matching.
func (r *Registry) Lookup(mediaType string) (Codec, bool) {
	c, ok := r.codecs[CanonicalMediaType(mediaType)]
	return c, ok
}

// Require resolves a media type or reports the server-configuration fault
// httperror.ErrCodecUnavailable: a declared content type with no codec is
// a 500, never a client error.
func (r *Registry) Require(mediaType string) (Codec, error) {
	c, ok := r.Lookup(mediaType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", httperror.ErrCodecUnavailable, mediaType)
	}
	return c, nil
}

// CanonicalMediaType lower-cases a media type and strips its parameters.
// A bare subtype shorthand ("json") is left untouched.
func CanonicalMediaType(mediaType string) string {
	if mediaType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mediaType))
	}
	return mt
}

// Media types served by the built-in codecs.
const (
	MediaTypeText      = "text/plain"
	MediaTypeJSON      = "application/json"
	MediaTypeForm      = "application/x-www-form-urlencoded"
	MediaTypeMultipart = "multipart/form-data"
	MediaTypeSSE       = "text/event-stream"
	MediaTypeYAML      = "application/yaml"
	MediaTypeMsgPack   = "application/msgpack"
	MediaTypeTOML      = "application/toml"
	MediaTypeBinary    = "application/octet-stream"
)
