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
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/weavehttp/weave/httperror"
)

// Static serves files under root at the given URL prefix, for GET and
// HEAD per RFC 7231.
//
// Resolution applies the router's path-safety rules: the request path was
// percent-decoded exactly once by the matcher, so a double-encoded
// sequence like %2520 looks for a literal "%20" filename; a ".." segment
// or a path resolving outside root is a 404; an empty segment was already
// rejected with 400 before matching. Content types are sniffed from the
// file extension.
//
// Example:
//
//	r.Static("/static", "./public")
func (r *Router) Static(prefix, root string) {
	if prefix == "" || prefix[0] != '/' {
		panic("router: static prefix must start with '/'")
	}
	prefix = strings.TrimSuffix(prefix, "/")

	handler := serveStatic(root)
	r.GET(prefix+"/*", handler)
	r.HEAD(prefix+"/*", handler)
}

func serveStatic(root string) HandlerFunc {
	return func(c *Context) {
		rel := c.Param("filepath")
		full, err := resolveStaticPath(root, rel)
		if err != nil {
			c.Error(err)
			return
		}

		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			c.Error(httperror.WithStatus(httperror.ErrRouteNotFound, 404))
			return
		}

		f, err := os.Open(full)
		if err != nil {
			c.Error(httperror.WithStatus(httperror.ErrRouteNotFound, 404))
			return
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(full))
		if err := c.DataFromReader(200, info.Size(), contentType, f); err != nil {
			c.Logger().Error("static serve failed", "path", rel, "error", err)
		}
	}
}

// resolveStaticPath maps the captured remainder onto the filesystem,
// refusing traversal out of root. Violations detectable in the request
// itself ("..") and violations detected after resolution both surface as
// 404: the tree outside root must be unprobeable.
func resolveStaticPath(root, rel string) (string, error) {
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", httperror.ErrOutsideRoot
		}
	}

	full := filepath.Join(root, filepath.FromSlash(rel))

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if absFull != absRoot && !strings.HasPrefix(absFull, absRoot+string(filepath.Separator)) {
		return "", httperror.ErrOutsideRoot
	}
	return full, nil
}
