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

package compress

import (
	"net/http"

	"github.com/valyala/bytebufferpool"
)

var bodyPool bytebufferpool.Pool

// bufferedWriter holds the handler's status and body until the response is
// finalized. Headers go straight to the wrapped writer's map, which is not
// sent until finalize or Flush.
//
// Calling Flush switches it to passthrough: everything buffered so far is
// sent and later writes go straight through. beforeSend, when set, runs
// once right before the headers go out on that path.
type bufferedWriter struct {
	http.ResponseWriter

	beforeSend func(header http.Header, buffered []byte)

	body        *bytebufferpool.ByteBuffer
	statusCode  int
	wroteHeader bool
	passthrough bool
}

func newBufferedWriter(w http.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{
		ResponseWriter: w,
		body:           bodyPool.Get(),
		statusCode:     http.StatusOK,
	}
}

// WriteHeader records the status code. Informational codes other than
// 101 are forwarded immediately since they precede the final response.
func (bw *bufferedWriter) WriteHeader(code int) {
	if bw.passthrough {
		bw.ResponseWriter.WriteHeader(code)
		return
	}

	if code >= 100 && code < 200 && code != http.StatusSwitchingProtocols {
		bw.ResponseWriter.WriteHeader(code)
		return
	}

	if bw.wroteHeader {
		return
	}

	bw.statusCode = code
	bw.wroteHeader = true
}

// Write buffers data unless the writer is in passthrough.
func (bw *bufferedWriter) Write(data []byte) (int, error) {
	if bw.passthrough {
		return bw.ResponseWriter.Write(data)
	}

	if !bw.wroteHeader {
		bw.WriteHeader(http.StatusOK)
	}

	return bw.body.Write(data)
}

// Flush sends what has been buffered and switches to passthrough.
func (bw *bufferedWriter) Flush() {
	if !bw.passthrough {
		bw.passthrough = true
		if bw.beforeSend != nil {
			bw.beforeSend(bw.ResponseWriter.Header(), bw.body.B)
		}
		bw.ResponseWriter.WriteHeader(bw.statusCode)
		if bw.body.Len() > 0 {
			_, _ = bw.ResponseWriter.Write(bw.body.B)
		}
		bw.body.Reset()
	}

	if f, ok := bw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the wrapped writer for http.ResponseController.
func (bw *bufferedWriter) Unwrap() http.ResponseWriter {
	return bw.ResponseWriter
}

// release returns the body buffer to the pool. The writer must not be used
// afterwards.
func (bw *bufferedWriter) release() {
	bodyPool.Put(bw.body)
	bw.body = nil
}
