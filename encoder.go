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
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/bytebufferpool"
)

// gzipEncoder compresses whole bodies in one buffered pass.
// Writers are pooled per encoder, so one level per pool.
type gzipEncoder struct {
	level   int
	writers sync.Pool
	buffers bytebufferpool.Pool

	// wrapSink, when set, wraps the buffer the gzip stream is written to
	wrapSink func(io.Writer) io.Writer
}

func newGzipEncoder(level int) (*gzipEncoder, error) {
	// Fail at construction rather than from inside the pool.
	if _, err := gzip.NewWriterLevel(io.Discard, level); err != nil {
		return nil, err
	}

	e := &gzipEncoder{level: level}
	e.writers.New = func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, level)
		return w
	}

	return e, nil
}

// encode returns the gzip stream for body in a freshly allocated slice.
func (e *gzipEncoder) encode(body []byte) ([]byte, error) {
	buf := e.buffers.Get()
	defer e.buffers.Put(buf)

	var sink io.Writer = buf
	if e.wrapSink != nil {
		sink = e.wrapSink(buf)
	}

	w := e.writers.Get().(*gzip.Writer)
	w.Reset(sink)
	defer func() {
		// Reset before returning to pool to drop the buffer reference
		w.Reset(io.Discard)
		e.writers.Put(w)
	}()

	if _, err := w.Write(body); err != nil {
		return nil, &ConstraintViolation{Op: "write", Err: err}
	}
	if err := w.Close(); err != nil {
		return nil, &ConstraintViolation{Op: "close", Err: err}
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)

	return out, nil
}
