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
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(t *testing.T, target string, header map[string][]string) *Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return NewRequest(req, nil)
}

func TestHeaderFlattening(t *testing.T) {
	t.Parallel()

	// Multiple header lines and one comma-joined line must reduce to the
	// same ordered logical sequence.
	shapes := map[string]map[string][]string{
		"single joined line": {"Headerparam": {"abc,def,hij"}},
		"two lines":          {"Headerparam": {"abc", "def,hij"}},
		"three lines":        {"Headerparam": {"abc", "def", "hij"}},
	}

	for name, header := range shapes {
		name, header := name, header
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r := newTestRequest(t, "/", header)

			values, err := Bind(r, []Spec{Header("Headerparam", String).List()})
			require.NoError(t, err)
			assert.Equal(t, []string{"abc", "def", "hij"}, values[0].Strings())
		})
	}
}

func TestHeaderSingleStringKeepsJoinedText(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/", map[string][]string{"Headerparam": {"abc,def,hij"}})

	values, err := Bind(r, []Spec{Header("Headerparam", String)})
	require.NoError(t, err)
	assert.Equal(t, "abc,def,hij", values[0].String())
}

func TestQueryCollectionSplitsCommas(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/get_encoded/queryParam/set?queryParam=abc&queryParam=def,hij", nil)

	values, err := Bind(r, []Spec{Query("queryParam", String).Set()})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def", "hij"}, values[0].Strings())
}

func TestSetDeduplicatesByParsedEquality(t *testing.T) {
	t.Parallel()

	// 1, 01 and 001 parse to the same int; raw-string comparison would
	// keep all three.
	r := newTestRequest(t, "/?n=1&n=01&n=001&n=2", nil)

	values, err := Bind(r, []Spec{Query("n", Int).Set()})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, values[0].Elements())
}

func TestCookieFlattening(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "tags", Value: "abc"})
	req.AddCookie(&http.Cookie{Name: "tags", Value: "def,hij"})
	r := NewRequest(req, nil)

	values, err := Bind(r, []Spec{Cookie("tags", String).List()})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def", "hij"}, values[0].Strings())
}

func TestFormSingleTakesFirstPairLiterally(t *testing.T) {
	t.Parallel()

	// Form pairs are never comma-split; a one-cardinality bind keeps only
	// the first occurrence.
	r := newTestRequest(t, "/", nil)
	r.SetForm(url.Values{"formParam": {"a,b,c", "d,e,f"}})

	values, err := Bind(r, []Spec{Form("formParam", String)})
	require.NoError(t, err)
	assert.Equal(t, "a,b,c", values[0].String())
}

func TestFormCollectionKeepsPairsWhole(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/", nil)
	r.SetForm(url.Values{"formParam": {"a,b,c", "d,e,f"}})

	values, err := Bind(r, []Spec{Form("formParam", String).List()})
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b,c", "d,e,f"}, values[0].Strings())
}

func TestRequiredMissing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec Spec
	}{
		{"required one", Query("missing", String)},
		{"required collection", Query("missing", String).List()},
		{"required path capture", Path("id", Int)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newTestRequest(t, "/", nil)

			_, err := Bind(r, []Spec{tt.spec})
			var bindErr *Error
			require.ErrorAs(t, err, &bindErr)
			assert.Equal(t, http.StatusBadRequest, bindErr.HTTPStatus())
		})
	}
}

func TestOptionalAbsent(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/", nil)

	values, err := Bind(r, []Spec{Query("q", String).Optional()})
	require.NoError(t, err)
	assert.False(t, values[0].Present)
	assert.Nil(t, values[0].Single())
	assert.Empty(t, values[0].Strings())
}

func TestOptionalDistinguishesEmptyFromAbsent(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/?q=", nil)

	values, err := Bind(r, []Spec{Query("q", String).Optional()})
	require.NoError(t, err)
	assert.True(t, values[0].Present)
	assert.Equal(t, "", values[0].Single())
}

func TestDefaultValue(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/", nil)

	values, err := Bind(r, []Spec{Query("page", Int).WithDefault("1")})
	require.NoError(t, err)
	assert.Equal(t, 1, values[0].Single())
}

func TestElementParseFailure(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/?n=abc", nil)

	_, err := Bind(r, []Spec{Query("n", Int)})
	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, http.StatusBadRequest, bindErr.HTTPStatus())
	assert.Contains(t, bindErr.Error(), `"n"`)
}

func TestPassThroughSkipsConversion(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/?n=not-an-int", nil)

	values, err := Bind(r, []Spec{Query("n", Int).Raw()})
	require.NoError(t, err)
	assert.Equal(t, "not-an-int", values[0].Single())
}

func TestBindAbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/?a=ok&b=bad", nil)

	values, err := Bind(r, []Spec{Query("a", String), Query("b", Int), Query("missing", String)})
	require.Error(t, err)
	assert.Nil(t, values)
}

func TestQuerySingleIntSplitsAndTakesFirst(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/?n=3,4", nil)

	values, err := Bind(r, []Spec{Query("n", Int)})
	require.NoError(t, err)
	assert.Equal(t, 3, values[0].Single())
}

func TestNotRequiredCollectionEmpty(t *testing.T) {
	t.Parallel()

	r := newTestRequest(t, "/", nil)

	values, err := Bind(r, []Spec{Query("tags", String).List().NotRequired()})
	require.NoError(t, err)
	assert.Empty(t, values[0].Elements())
}

func TestPathCapture(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	r := NewRequest(req, map[string]string{"id": "42"})

	values, err := Bind(r, []Spec{Path("id", Int64)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), values[0].Single())
}

func TestEmptyPathCaptureIsMissing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	r := NewRequest(req, map[string]string{"id": ""})

	_, err := Bind(r, []Spec{Path("id", String)})
	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	assert.ErrorIs(t, err, ErrRequired)
}
