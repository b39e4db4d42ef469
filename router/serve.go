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

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server builds the http.Server for this router. With WithH2C the handler
// upgrades cleartext HTTP/2, multiplexing exchanges over one connection;
// response framing (chunked vs. length-omitted) follows the negotiated
// protocol version, not this layer.
func (r *Router) Server(addr string) *http.Server {
	var handler http.Handler = r
	if r.h2c {
		handler = h2c.NewHandler(r, &http2.Server{})
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: r.timeouts.readHeader,
		ReadTimeout:       r.timeouts.read,
		WriteTimeout:      r.timeouts.write,
		IdleTimeout:       r.timeouts.idle,
	}
}

// Start serves on addr until the server stops.
func (r *Router) Start(addr string) error {
	return r.Server(addr).ListenAndServe()
}

// StartTLS serves TLS on addr until the server stops. HTTP/2 is
// negotiated via ALPN by the standard library.
func (r *Router) StartTLS(addr, certFile, keyFile string) error {
	return r.Server(addr).ListenAndServeTLS(certFile, keyFile)
}
