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
	"strings"
	"testing"

	"rivaas.dev/router"
)

func BenchmarkProcess_Compressed(b *testing.B) {
	c, err := NewCompressor(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	body := []byte(strings.Repeat(`{"id":42,"name":"benchmark"},`, 200))
	reqHeader := http.Header{"Accept-Encoding": []string{"gzip"}}

	b.ReportAllocs()

	for b.Loop() {
		resp := &Response{
			StatusCode: http.StatusOK,
			Mimetype:   "application/json",
			Header:     make(http.Header),
			Body:       body,
		}
		if _, err := c.Process(resp, reqHeader, false); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcess_Ignored(b *testing.B) {
	c, err := NewCompressor(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	reqHeader := http.Header{"Accept-Encoding": []string{"gzip"}}
	resp := &Response{
		StatusCode: http.StatusOK,
		Mimetype:   "image/png",
		Header:     make(http.Header),
		Body:       make([]byte, 4096),
	}

	b.ReportAllocs()

	for b.Loop() {
		if _, err := c.Process(resp, reqHeader, false); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNew_Router(b *testing.B) {
	r := router.MustNew()
	r.Use(New())
	r.GET("/test", func(c *router.Context) {
		//nolint:errcheck // Benchmark handler
		c.HTML(http.StatusOK, largeHTML)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
	}
}
