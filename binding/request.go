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

package binding

import (
	"net/http"
	"net/url"
	"strings"
)

// Request is the binder's view of one exchange: path captures from the
// matcher, the query/header/cookie multimaps, and optionally the parsed
// form pairs.
//
// The binder never reads the request body itself. Form pairs are supplied
// by whoever consumed the body (the codec layer), preserving the
// one-body-consumer rule.
type Request struct {
	captures map[string]string
	query    url.Values
	header   http.Header
	cookies  []*http.Cookie
	form     url.Values
}

// NewRequest builds a binder Request from an http.Request and the raw path
// captures produced by the matcher. The body is not touched.
func NewRequest(r *http.Request, captures map[string]string) *Request {
	return &Request{
		captures: captures,
		query:    r.URL.Query(),
		header:   r.Header,
		cookies:  r.Cookies(),
	}
}

// SetForm supplies parsed application/x-www-form-urlencoded pairs for
// SourceForm specs. Pairs keep their arrival order per key.
func (r *Request) SetForm(form url.Values) { r.form = form }

// gather returns the ordered physical values for a spec's source, before
// any comma flattening.
func (r *Request) gather(s Spec) []string {
	switch s.Source {
	case SourcePath:
		if r.captures == nil {
			return nil
		}
		if v, ok := r.captures[s.Name]; ok {
			if v == "" {
				// An empty capture is indistinguishable from a missing
				// segment; treat as absent so required binds fail with 400.
				return nil
			}
			return []string{v}
		}
		return nil
	case SourceQuery:
		return r.query[s.Name]
	case SourceHeader:
		return r.header.Values(s.Name)
	case SourceCookie:
		var values []string
		for _, c := range r.cookies {
			if c.Name == s.Name {
				values = append(values, c.Value)
			}
		}
		return values
	case SourceForm:
		return r.form[s.Name]
	default:
		return nil
	}
}

// logicalValues applies the comma-flattening rule to the gathered physical
// values.
//
// Header, cookie and query values are split on commas when the declared
// cardinality is multi-valued or the element type is not a plain string,
// so repeated lines and comma-joined single lines reduce to the same
// ordered sequence. A one-cardinality plain-string bind keeps the first
// physical value literally. Form and path values are never split.
func (r *Request) logicalValues(s Spec) []string {
	physical := r.gather(s)
	if len(physical) == 0 {
		return nil
	}

	switch s.Source {
	case SourceForm, SourcePath:
		return physical
	}

	if !s.Cardinality.multiValued() && s.Type.isPlainString() {
		return physical
	}

	logical := make([]string, 0, len(physical))
	for _, v := range physical {
		if !strings.Contains(v, ",") {
			logical = append(logical, v)
			continue
		}
		for _, part := range strings.Split(v, ",") {
			logical = append(logical, strings.TrimSpace(part))
		}
	}
	return logical
}
