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
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"

	"rivaas.dev/router"
)

// hook runs the compressor on a fully buffered response right before it
// is sent.
type hook struct {
	compressor *Compressor
	debug      bool
	logger     *slog.Logger
	metrics    *metricsRecorder
}

// newHook applies opts and builds the hook. It panics on invalid
// configuration, since that is a programming error caught at startup.
func newHook(opts ...Option) *hook {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	c, err := NewCompressor(o.cfg)
	if err != nil {
		panic(err)
	}

	mp := o.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	metrics, err := newMetricsRecorder(mp)
	if err != nil {
		panic(err)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &hook{
		compressor: c,
		debug:      o.debug,
		logger:     logger,
		metrics:    metrics,
	}
}

// New returns a rivaas router middleware that gzips eligible responses.
//
// The handler chain writes into a buffer; once it returns, the buffered
// response goes through [Compressor.Process] and is sent in one pass.
// Handlers that call Flush switch the response to passthrough: it is sent
// uncompressed, with Vary announced for configured mimetypes.
//
// Basic usage:
//
//	r := router.MustNew()
//	r.Use(compress.New())
//
// Host debug mode and settings store:
//
//	r.Use(compress.New(
//	    compress.WithSettings(settings),
//	    compress.WithDebug(env == "development"),
//	))
//
// It panics if the configuration is invalid. With no mimetypes configured
// it only calls c.Next().
func New(opts ...Option) router.HandlerFunc {
	return newHook(opts...).middleware()
}

func (h *hook) middleware() router.HandlerFunc {
	if !h.compressor.Enabled() {
		return func(c *router.Context) {
			c.Next()
		}
	}

	return func(c *router.Context) {
		original := c.Response
		bw := h.newWriter(original)
		c.Response = bw
		defer func() {
			c.Response = original
			bw.release()
		}()

		c.Next()

		if err := h.finalize(c.Request.Context(), original, c.Request, bw); err != nil {
			c.Error(err)
		}
	}
}

// Handler wraps next with the same behavior as [New] for plain net/http
// servers. With no mimetypes configured next is returned unchanged.
//
// Example:
//
//	http.ListenAndServe(":8080", compress.Handler(mux, compress.WithLevel(9)))
func Handler(next http.Handler, opts ...Option) http.Handler {
	return newHook(opts...).handler(next)
}

func (h *hook) handler(next http.Handler) http.Handler {
	if !h.compressor.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bw := h.newWriter(w)
		defer bw.release()

		next.ServeHTTP(bw, r)

		_ = h.finalize(r.Context(), w, r, bw)
	})
}

// newWriter returns a buffered writer that announces Vary when the handler
// streams the response with Flush.
func (h *hook) newWriter(w http.ResponseWriter) *bufferedWriter {
	bw := newBufferedWriter(w)
	bw.beforeSend = func(header http.Header, buffered []byte) {
		h.compressor.announce(header, mediaType(contentType(header, buffered)))
	}

	return bw
}

// finalize processes the buffered response and writes it to w.
// The returned error is a *ConstraintViolation; a 500 has already been sent.
func (h *hook) finalize(ctx context.Context, w http.ResponseWriter, r *http.Request, bw *bufferedWriter) error {
	if bw.passthrough {
		return nil
	}

	header := w.Header()
	status := bw.statusCode
	mimetype := mediaType(contentType(header, bw.body.B))

	if !bodyAllowed(r.Method, status) {
		h.compressor.announce(header, mimetype)
		w.WriteHeader(status)

		return nil
	}

	resp := &Response{
		StatusCode: status,
		Mimetype:   mimetype,
		Header:     header,
		Body:       bw.body.B,
	}
	sizeIn := len(resp.Body)

	outcome, err := h.compressor.process(resp, r.Header, h.debug)
	h.metrics.record(ctx, outcome, sizeIn, len(resp.Body))

	if err != nil {
		h.logger.ErrorContext(ctx, "response compression failed",
			"error", err,
			"path", r.URL.Path,
			"mimetype", resp.Mimetype,
			"size", sizeIn,
		)
		header.Del(headerContentLength)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return err
	}

	if outcome == OutcomeCompressed {
		h.logger.DebugContext(ctx, "response compressed",
			"path", r.URL.Path,
			"mimetype", resp.Mimetype,
			"size_in", sizeIn,
			"size_out", len(resp.Body),
		)
	}

	w.WriteHeader(status)
	if len(resp.Body) > 0 {
		if _, err = w.Write(resp.Body); err != nil {
			h.logger.DebugContext(ctx, "response write failed", "error", err, "path", r.URL.Path)
		}
	}

	return nil
}

// contentType returns the response Content-Type. When the handler set none,
// it is sniffed from the body and set, as net/http does on first write.
func contentType(header http.Header, body []byte) string {
	ct := header.Get("Content-Type")
	if ct == "" && len(body) > 0 {
		ct = http.DetectContentType(body)
		header.Set("Content-Type", ct)
	}

	return ct
}

// bodyAllowed reports whether a response may carry a body worth inspecting.
func bodyAllowed(method string, status int) bool {
	if method == http.MethodHead {
		return false
	}

	return status >= http.StatusOK &&
		status != http.StatusNoContent &&
		status != http.StatusNotModified
}

// mediaType reduces a Content-Type value to its lower-case media type.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(mt))
	}

	return mt
}
