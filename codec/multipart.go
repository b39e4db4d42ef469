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
	"mime/multipart"
	"strings"
)

// MultipartReader walks a multipart/form-data body in a single pass. Each
// part is surfaced with its name, declared filename and content type, and
// may be consumed as raw bytes, as a string, or as an object decoded via
// the part's own content type. Different parts of the same body can mix
// consumption styles freely; no part is ever re-read.
type MultipartReader struct {
	mr  *multipart.Reader
	reg *Registry
}

// NewMultipartReader parses the boundary out of contentType and prepares a
// single-pass reader over body.
func NewMultipartReader(contentType string, body io.Reader, reg *Registry) (*MultipartReader, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("parse multipart content type: %w", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("not a multipart content type: %s", mediaType)
	}
	boundary, ok := params["boundary"]
	if !ok {
		return nil, fmt.Errorf("multipart content type missing boundary")
	}
	return &MultipartReader{mr: multipart.NewReader(body, boundary), reg: reg}, nil
}

// Next advances to the next part. The previous part's body becomes
// unreadable. Returns io.EOF after the final part.
func (m *MultipartReader) Next() (*Part, error) {
	p, err := m.mr.NextPart()
	if err != nil {
		return nil, err
	}
	return &Part{
		Name:        p.FormName(),
		Filename:    p.FileName(),
		ContentType: p.Header.Get("Content-Type"),
		reg:         m.reg,
		r:           p,
	}, nil
}

// Part is one multipart part. Filename and ContentType are empty when the
// part declared none.
type Part struct {
	Name        string
	Filename    string
	ContentType string

	reg *Registry
	r   io.Reader
}

// Bytes consumes the part as opaque raw bytes.
func (p *Part) Bytes() ([]byte, error) {
	return io.ReadAll(p.r)
}

// Text consumes the part as a string.
func (p *Part) Text() (string, error) {
	data, err := io.ReadAll(p.r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode consumes the part as an object via the part's declared content
// type. A part with no content type decodes as text/plain.
func (p *Part) Decode(v any) error {
	mediaType := p.ContentType
	if mediaType == "" {
		mediaType = MediaTypeText
	}
	c, err := p.reg.Require(mediaType)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(p.r)
	if err != nil {
		return err
	}
	return c.Decode(data, v)
}

// Object consumes the part as a decoded value using the default element
// destination.
func (p *Part) Object() (any, error) {
	var v any
	if err := p.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
