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

package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "css", "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "some space.txt"), []byte("spaced"), 0o644))

	r := MustNew()
	r.Static("/static", root)

	t.Run("serves a nested file with its content type", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{}", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
		assert.Equal(t, "6", rec.Header().Get("Content-Length"))
	})

	t.Run("single-encoded space resolves", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/static/some%20space.txt", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "spaced", rec.Body.String())
	})

	t.Run("double-encoded space is a literal filename, 404", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/static/some%2520space.txt", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("dot-dot traversal is 404", func(t *testing.T) {
		t.Parallel()
		outside := filepath.Join(filepath.Dir(root), "pom.xml")
		require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))

		rec := perform(r, httptest.NewRequest(http.MethodGet, "/static/../pom.xml", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("encoded dot-dot traversal is 404", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/static/%2e%2e/pom.xml", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("directory is 404", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/static/css", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing file is 404", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/static/nope.txt", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("HEAD is registered alongside GET", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodHead, "/static/index.html", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
