// Copyright 2025 The Rivaas Authors
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

// Package compress provides gzip response compression applied after the
// handler has produced the whole response.
//
// Every response passes through [Compressor.Process] once, right before it
// is sent. The decision is a fixed sequence of gates:
//
//  1. The media type must be one of the configured mimetypes. Otherwise the
//     response is left completely untouched.
//  2. "Accept-Encoding" is added to Vary, whether or not this particular
//     response ends up compressed.
//  3. In host debug mode nothing is compressed unless debug compression is on.
//  4. The request's Accept-Encoding must mention gzip.
//  5. The status must be 2xx, the body at least the minimum size, and no
//     Content-Encoding may be set yet.
//
// When all gates pass, the body is replaced with a gzip stream and
// Content-Encoding and Content-Length are set to match.
//
// # Basic Usage
//
//	import "rivaas.dev/compress"
//
//	r := router.MustNew()
//	r.Use(compress.New())
//
// Plain net/http:
//
//	http.ListenAndServe(":8080", compress.Handler(mux))
//
// # Configuration
//
// Defaults match the COMPRESS_* settings below and can be overridden with
// options or from a host settings store:
//
//   - COMPRESS_MIMETYPES: text/html, text/css, text/xml, application/json, application/javascript
//   - COMPRESS_DEBUG: false
//   - COMPRESS_LEVEL: 6 (0-9)
//   - COMPRESS_MIN_SIZE: 500 bytes
//
// Invalid configuration makes [New] and [Handler] panic at startup.
// An empty mimetype list disables the middleware.
//
// # Passthrough
//
// Responses are buffered in full. A handler that calls Flush switches its
// response to passthrough: it is streamed as written and never compressed.
// Vary: Accept-Encoding is still added for configured mimetypes, as it is
// for HEAD, 204 and 304 responses.
package compress
