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

	"github.com/weavehttp/weave/httperror"
)

// Shape is the reactive shape of a body: how many logical elements it
// carries and whether they may arrive unbounded.
type Shape int

const (
	// ShapeNone declares no body; any supplied bytes are drained and
	// discarded.
	ShapeNone Shape = iota

	// ShapeSingle aggregates to exactly one decoded value. A logically
	// multi-valued body keeps the first element; the rest is drained.
	ShapeSingle

	// ShapeList aggregates a bounded ordered sequence.
	ShapeList

	// ShapeStream decodes incrementally and must never buffer the whole
	// body before yielding the first element.
	ShapeStream
)

// Representation is how the body's bytes are surfaced to the handler.
type Representation int

const (
	// RepresentationObject decodes through the media-type codec.
	RepresentationObject Representation = iota

	// RepresentationBytes passes raw bytes through, bypassing codec lookup.
	RepresentationBytes

	// RepresentationString passes the body through as a string, bypassing
	// codec lookup.
	RepresentationString
)

// BodySpec declares a handler's body parameter.
type BodySpec struct {
	// Shape is the reactive shape. Zero value is ShapeNone.
	Shape Shape

	// Representation selects raw bytes, string or codec-decoded objects.
	Representation Representation

	// MediaType overrides the request content type for decoder selection.
	// Empty means the request's own content type decides.
	MediaType string

	// Element allocates the decode destination for one object element.
	// Nil defaults to a fresh *any (maps, slices and scalars as decoded).
	Element func() any
}

func (s BodySpec) element() any {
	if s.Element != nil {
		return s.Element()
	}
	var v any
	return &v
}

// deref unwraps the default *any destination so handlers see plain values.
func deref(v any) any {
	if p, ok := v.(*any); ok {
		return *p
	}
	return v
}

// DecodeBody decodes a single- or list-shaped body from r according to the
// spec. The reader is always fully consumed on success, even when the
// shape keeps only the first element.
//
// The media type used for decoder selection is the spec's declared type
// when set, else contentType. A missing decoder for an object-represented
// body is a server configuration fault (500).
func DecodeBody(reg *Registry, spec BodySpec, contentType string, r io.Reader) (any, error) {
	switch spec.Shape {
	case ShapeNone:
		_, err := io.Copy(io.Discard, r)
		return nil, err
	case ShapeStream:
		return nil, fmt.Errorf("stream-shaped body requires DecodeBodyStream")
	}

	switch spec.Representation {
	case RepresentationBytes:
		return io.ReadAll(r)
	case RepresentationString:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}

	mediaType := spec.MediaType
	if mediaType == "" {
		mediaType = contentType
	}
	c, err := reg.Require(mediaType)
	if err != nil {
		return nil, err
	}

	if spec.Shape == ShapeList {
		return decodeList(c, spec, r)
	}
	return decodeSingle(c, spec, r)
}

// decodeSingle keeps the first logical document and drains the remainder
// (first-wins; the discard policy is deliberate, see package doc).
func decodeSingle(c Codec, spec BodySpec, r io.Reader) (any, error) {
	v := spec.element()
	if sd, ok := c.(StreamDecoder); ok {
		if err := sd.DecodeFirst(r, v); err != nil {
			return nil, err
		}
		return deref(v), nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := c.Decode(data, v); err != nil {
		return nil, err
	}
	return deref(v), nil
}

// decodeList materializes a bounded sequence. JSON bodies framed as one
// array stream element-wise; other codecs, and concatenated-document
// bodies, collect via DecodeStream when available.
func decodeList(c Codec, spec BodySpec, r io.Reader) ([]any, error) {
	elems := []any{}
	collect := func(v any) error {
		elems = append(elems, deref(v))
		return nil
	}

	if _, isJSON := c.(JSON); isJSON {
		if err := DecodeArrayStream(r, spec.element, collect); err != nil {
			return nil, err
		}
		return elems, nil
	}

	if sd, ok := c.(StreamDecoder); ok {
		if err := sd.DecodeStream(r, spec.element, collect); err != nil {
			return nil, err
		}
		return elems, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	v := spec.element()
	if err := c.Decode(data, v); err != nil {
		return nil, err
	}
	return []any{deref(v)}, nil
}

// DecodeBodyStream decodes a stream-shaped body incrementally, invoking
// each per element as it becomes available. The codec must implement
// [StreamDecoder]; a codec that cannot frame a stream is a server
// configuration fault.
func DecodeBodyStream(reg *Registry, spec BodySpec, contentType string, r io.Reader, each func(any) error) error {
	switch spec.Representation {
	case RepresentationBytes, RepresentationString:
		return streamRaw(spec, r, each)
	}

	mediaType := spec.MediaType
	if mediaType == "" {
		mediaType = contentType
	}
	c, err := reg.Require(mediaType)
	if err != nil {
		return err
	}
	sd, ok := c.(StreamDecoder)
	if !ok {
		return fmt.Errorf("%w: %s cannot decode streams", httperror.ErrCodecUnavailable, c.MediaType())
	}
	return sd.DecodeStream(r, spec.element, func(v any) error { return each(deref(v)) })
}

// streamRaw yields raw chunks as they arrive, without any framing.
func streamRaw(spec BodySpec, r io.Reader, each func(any) error) error {
	buf := make([]byte, 8192)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			var elem any = chunk
			if spec.Representation == RepresentationString {
				elem = string(chunk)
			}
			if eachErr := each(elem); eachErr != nil {
				return eachErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
