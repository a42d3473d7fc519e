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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedWriter_Buffers(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	bw := newBufferedWriter(w)
	defer bw.release()

	bw.WriteHeader(http.StatusCreated)
	bw.WriteHeader(http.StatusTeapot)
	n, err := bw.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusCreated, bw.statusCode, "first WriteHeader wins")
	assert.Equal(t, "hello", string(bw.body.B))
	assert.False(t, w.Flushed)
	assert.Zero(t, w.Body.Len(), "nothing reaches the client before finalize")
}

func TestBufferedWriter_ImplicitStatus(t *testing.T) {
	t.Parallel()

	bw := newBufferedWriter(httptest.NewRecorder())
	defer bw.release()

	//nolint:errcheck // Test write
	bw.Write([]byte("x"))

	assert.True(t, bw.wroteHeader)
	assert.Equal(t, http.StatusOK, bw.statusCode)
}

func TestBufferedWriter_InformationalForwarded(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	bw := newBufferedWriter(w)
	defer bw.release()

	bw.WriteHeader(http.StatusEarlyHints)
	bw.WriteHeader(http.StatusAccepted)

	assert.Equal(t, http.StatusAccepted, bw.statusCode)
	assert.True(t, bw.wroteHeader)
}

func TestBufferedWriter_Flush(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	bw := newBufferedWriter(w)
	defer bw.release()

	bw.WriteHeader(http.StatusAccepted)
	//nolint:errcheck // Test write
	bw.Write([]byte("first "))
	bw.Flush()
	//nolint:errcheck // Test write
	bw.Write([]byte("second"))

	assert.True(t, bw.passthrough)
	assert.True(t, w.Flushed)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "first second", w.Body.String())
	assert.Zero(t, bw.body.Len())
}

func TestBufferedWriter_Unwrap(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	bw := newBufferedWriter(w)
	defer bw.release()

	assert.Same(t, w, bw.Unwrap())

	bw.Header().Set("X-Trace", "abc")
	assert.Equal(t, "abc", w.Header().Get("X-Trace"), "headers are shared with the wrapped writer")
}

func TestBufferedWriter_BeforeSend(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	bw := newBufferedWriter(w)
	defer bw.release()

	calls := 0
	bw.beforeSend = func(header http.Header, buffered []byte) {
		calls++
		assert.Equal(t, "chunk", string(buffered))
		header.Set("Vary", "Accept-Encoding")
	}

	//nolint:errcheck // Test write
	bw.Write([]byte("chunk"))
	bw.Flush()
	bw.Flush()

	assert.Equal(t, 1, calls, "runs once, on the switch to passthrough")
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))
	assert.Equal(t, "chunk", w.Body.String())
}
