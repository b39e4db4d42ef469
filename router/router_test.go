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
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavehttp/weave/binding"
	"github.com/weavehttp/weave/codec"
	"github.com/weavehttp/weave/httperror"
)

func perform(r *Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDispatchBasics(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/ping", func(c *Context) {
		_ = c.String(http.StatusOK, "pong")
	})
	r.GET("/silent", func(*Context) {})

	t.Run("matched route runs the handler", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
		assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	})

	t.Run("handler that writes nothing gets 200", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/silent", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong method is 404", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodPost, "/ping", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty interior segment is 400", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/ping//pong", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDispatchQueryBinding(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/get_encoded/queryParam/set", func(c *Context) {
		v := c.Bound("queryParam")
		_ = c.String(http.StatusOK, "get_encoded queryParam: {"+strings.Join(v.Strings(), ", ")+"}")
	}, Params(binding.Query("queryParam", binding.String).Set()))
	r.GET("/one", func(c *Context) {
		_ = c.String(http.StatusOK, c.Bound("n").String())
	}, Params(binding.Query("n", binding.Int)))

	t.Run("set gathers across repeats and commas", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet,
			"/get_encoded/queryParam/set?queryParam=abc&queryParam=def,hij", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "get_encoded queryParam: {abc, def, hij}", rec.Body.String())
	})

	t.Run("single keeps first element of a comma run", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/one?n=3,4", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Body.String())
	})

	t.Run("unparseable value is 400", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/one?n=abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "n")
	})

	t.Run("missing required value is 400", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/one", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDispatchFormBinding(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.POST("/post", func(c *Context) {
		_ = c.String(http.StatusOK, "post_formParam: "+c.Bound("formParam").String())
	}, Params(binding.Form("formParam", binding.String)))

	t.Run("first pair wins and is never comma-split", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/post",
			strings.NewReader("formParam=a,b,c&formParam=d,e,f"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := perform(r, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "post_formParam: a,b,c", rec.Body.String())
	})

	t.Run("form parse counts as the body consumption", func(t *testing.T) {
		t.Parallel()
		r := MustNew()
		var consumeErr error
		r.POST("/post", func(c *Context) {
			_, consumeErr = c.BodyBytes()
		}, Params(binding.Form("formParam", binding.String)))

		req := httptest.NewRequest(http.MethodPost, "/post", strings.NewReader("formParam=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		perform(r, req)
		assert.ErrorIs(t, consumeErr, httperror.ErrBodyConsumed)
	})
}

func TestDispatchPathBinding(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/users/:id/posts/:slug", func(c *Context) {
		_ = c.String(http.StatusOK, fmt.Sprintf("%v/%v",
			c.Bound("id").Single(), c.Bound("slug").Single()))
	}, Params(
		binding.Path("id", binding.Int64),
		binding.Path("slug", binding.String),
	), Constraint("id", `\d+`))

	t.Run("captures parse to declared types", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/users/42/posts/intro", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "42/intro", rec.Body.String())
	})

	t.Run("constraint failure is a 404, not a 400", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/users/abc/posts/intro", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("capture decodes exactly once", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/users/42/posts/a%2520b", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "42/a%20b", rec.Body.String())
	})
}

func TestDispatchBody(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	r := MustNew()
	r.POST("/single", func(c *Context) {
		v, err := c.DecodeBody()
		if err != nil {
			c.Error(err)
			return
		}
		_ = c.String(http.StatusOK, v.(*payload).Name)
	}, Body(codec.BodySpec{
		Shape:   codec.ShapeSingle,
		Element: func() any { return new(payload) },
	}))
	r.POST("/second", func(c *Context) {
		if _, err := c.DecodeBody(); err != nil {
			c.Error(err)
			return
		}
		if _, err := c.BodyBytes(); err != nil {
			c.Error(err)
			return
		}
	}, Body(codec.BodySpec{
		Shape:   codec.ShapeSingle,
		Element: func() any { return new(payload) },
	}))

	t.Run("single decodes by request content type", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/single",
			strings.NewReader(`{"name":"ada"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := perform(r, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ada", rec.Body.String())
	})

	t.Run("single against a sequence keeps the first value", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/single",
			strings.NewReader(`{"name":"first"}{"name":"second"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := perform(r, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "first", rec.Body.String())
	})

	t.Run("missing decoder is a server fault", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/single", strings.NewReader("x"))
		req.Header.Set("Content-Type", "application/unknown")
		rec := perform(r, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("second consumption fails", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/second",
			strings.NewReader(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := perform(r, req)
		assert.Equal(t, httperror.StatusOf(httperror.ErrBodyConsumed), rec.Code)
	})
}

func TestRespondNegotiation(t *testing.T) {
	t.Parallel()

	type reply struct {
		OK bool `json:"ok" yaml:"ok"`
	}

	r := MustNew()
	r.GET("/negotiated", func(c *Context) {
		if err := c.Respond(http.StatusOK, &reply{OK: true}); err != nil {
			c.Error(err)
		}
	}, Produces(codec.MediaTypeJSON, codec.MediaTypeYAML))
	r.GET("/bare", func(c *Context) {
		if err := c.Respond(http.StatusOK, "raw text"); err != nil {
			c.Error(err)
		}
	})
	r.GET("/bare_struct", func(c *Context) {
		if err := c.Respond(http.StatusOK, &reply{}); err != nil {
			c.Error(err)
		}
	})

	t.Run("first produced type is the default", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/negotiated", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, codec.MediaTypeJSON, rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("Content-Length"))
	})

	t.Run("accept reorders produced types", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/negotiated", nil)
		req.Header.Set("Accept", "application/yaml")
		rec := perform(r, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, codec.MediaTypeYAML, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "ok: true")
	})

	t.Run("no produced types omits Content-Type entirely", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/bare", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "raw text", rec.Body.String())
		assert.Empty(t, rec.Header().Values("Content-Type"))
	})

	t.Run("structured value without produced types is a server fault", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/bare_struct", nil))
		assert.Equal(t, httperror.StatusOf(httperror.ErrCodecUnavailable), rec.Code)
	})
}

func TestRespondStream(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/stream", func(c *Context) {
		values := []any{map[string]int{"n": 1}, map[string]int{"n": 2}}
		i := 0
		err := c.RespondStream(http.StatusOK, func() (any, bool, error) {
			if i == len(values) {
				return nil, false, nil
			}
			v := values[i]
			i++
			return v, true, nil
		})
		if err != nil {
			c.Error(err)
		}
	}, Produces(codec.MediaTypeJSON))

	rec := perform(r, httptest.NewRequest(http.MethodGet, "/stream", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, codec.MediaTypeJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"n":1}{"n":2}`, rec.Body.String())
	// Unbounded sequences never carry a length; the transport frames them.
	assert.Empty(t, rec.Header().Get("Content-Length"))
	assert.True(t, rec.Flushed)
}

func TestSSEResponse(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/events", func(c *Context) {
		sent := false
		err := c.SSE(http.StatusOK, func() (any, bool, error) {
			if sent {
				return nil, false, nil
			}
			sent = true
			return codec.Event{Type: "tick", ID: "1", Data: []byte("line1\nline2")}, true, nil
		})
		if err != nil {
			c.Error(err)
		}
	})

	rec := perform(r, httptest.NewRequest(http.MethodGet, "/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, codec.MediaTypeSSE, rec.Header().Get("Content-Type"))
	assert.Equal(t, "event: tick\nid: 1\ndata: line1\ndata: line2\n\n", rec.Body.String())
}

func TestDispatchErrorMapping(t *testing.T) {
	t.Parallel()

	r := MustNew(WithLogger(noopLogger))
	r.GET("/teapot", func(c *Context) {
		c.Error(httperror.WithStatus(errors.New("short and stout"), http.StatusTeapot))
	})
	r.GET("/boom", func(c *Context) {
		c.Error(errors.New("kaboom"))
	})
	r.GET("/written", func(c *Context) {
		_ = c.String(http.StatusAccepted, "done")
		c.Error(errors.New("too late"))
	})

	t.Run("status carrier maps to its status", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/teapot", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "short and stout", rec.Body.String())
	})

	t.Run("plain error maps to 500", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("errors after a written response are dropped", func(t *testing.T) {
		t.Parallel()
		rec := perform(r, httptest.NewRequest(http.MethodGet, "/written", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "done", rec.Body.String())
	})
}

func TestMiddlewareChain(t *testing.T) {
	t.Parallel()

	t.Run("middleware wraps the handler", func(t *testing.T) {
		t.Parallel()
		var order []string
		r := MustNew()
		r.Use(func(c *Context) {
			order = append(order, "before")
			c.Next()
			order = append(order, "after")
		})
		r.GET("/x", func(c *Context) {
			order = append(order, "handler")
		})

		perform(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, []string{"before", "handler", "after"}, order)
	})

	t.Run("abort skips the handler", func(t *testing.T) {
		t.Parallel()
		r := MustNew()
		r.Use(func(c *Context) {
			_ = c.String(http.StatusUnauthorized, "denied")
			c.Abort()
		})
		handled := false
		r.GET("/x", func(*Context) { handled = true })

		rec := perform(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, handled)
	})
}

type countingRecorder struct {
	started  atomic.Int64
	pattern  atomic.Value
	status   atomic.Int64
	bodySize atomic.Int64
}

func (c *countingRecorder) OnRequestStart(ctx context.Context, _ *http.Request) (context.Context, any) {
	c.started.Add(1)
	return ctx, struct{}{}
}

func (c *countingRecorder) OnRequestEnd(_ context.Context, _ any, info ResponseInfo, routePattern string) {
	c.pattern.Store(routePattern)
	c.status.Store(int64(info.StatusCode()))
	c.bodySize.Store(info.Size())
}

func TestObservabilityRecorder(t *testing.T) {
	t.Parallel()

	rec := &countingRecorder{}
	r := MustNew(WithObservability(rec))
	r.GET("/users/:id", func(c *Context) {
		_ = c.String(http.StatusOK, "hello")
	})

	t.Run("matched request reports the template", func(t *testing.T) {
		perform(r, httptest.NewRequest(http.MethodGet, "/users/9", nil))
		assert.Equal(t, int64(1), rec.started.Load())
		assert.Equal(t, "/users/:id", rec.pattern.Load())
		assert.Equal(t, int64(http.StatusOK), rec.status.Load())
		assert.Equal(t, int64(len("hello")), rec.bodySize.Load())
	})

	t.Run("unmatched request reports a sentinel pattern", func(t *testing.T) {
		perform(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, "_unmatched", rec.pattern.Load())
		assert.Equal(t, int64(http.StatusNotFound), rec.status.Load())
	})
}

func TestServerTimeoutValidation(t *testing.T) {
	t.Parallel()

	_, err := New(WithServerTimeouts(-1, 0, 0, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerTimeoutInvalid)
}
