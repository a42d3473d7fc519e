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
	"strconv"
	"strings"
)

const (
	headerAcceptEncoding  = "Accept-Encoding"
	headerContentEncoding = "Content-Encoding"
	headerContentLength   = "Content-Length"
	headerVary            = "Vary"

	encodingGzip = "gzip"
)

// Response is an outgoing response as seen by the compressor.
// It is owned by the host; [Compressor.Process] mutates it in place.
type Response struct {
	StatusCode int
	Mimetype   string // media type without parameters, e.g. "text/html"
	Header     http.Header
	Body       []byte

	// Passthrough marks a body the host streams without buffering.
	// Process clears it before inspecting the body.
	Passthrough bool
}

// Outcome describes what Process decided for a response.
type Outcome uint8

const (
	// OutcomeIgnored: the mimetype is never compressed; nothing was touched.
	OutcomeIgnored Outcome = iota
	// OutcomeDebug: the host runs in debug mode with debug compression off.
	OutcomeDebug
	// OutcomeNotAccepted: the client did not advertise gzip.
	OutcomeNotAccepted
	// OutcomeIneligible: status, size or an existing Content-Encoding ruled it out.
	OutcomeIneligible
	// OutcomeCompressed: the body was replaced by its gzip form.
	OutcomeCompressed
	// OutcomeFailed: the body was eligible but could not be compressed.
	OutcomeFailed
)

// String returns the label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDebug:
		return "debug"
	case OutcomeNotAccepted:
		return "not_accepted"
	case OutcomeIneligible:
		return "ineligible"
	case OutcomeCompressed:
		return "compressed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Compressor applies the compression policy to responses.
// It is immutable and safe for concurrent use.
type Compressor struct {
	mimetypes        map[string]struct{}
	debugCompression bool
	minSize          int
	encoder          *gzipEncoder
}

// NewCompressor validates cfg and returns a Compressor holding its own copy.
func NewCompressor(cfg Config) (*Compressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	enc, err := newGzipEncoder(cfg.Level)
	if err != nil {
		return nil, &ConfigError{Field: SettingLevel, Operation: "validate", Err: err}
	}

	mimetypes := make(map[string]struct{}, len(cfg.Mimetypes))
	for _, mt := range cfg.Mimetypes {
		mimetypes[mt] = struct{}{}
	}

	return &Compressor{
		mimetypes:        mimetypes,
		debugCompression: cfg.DebugCompression,
		minSize:          cfg.MinSize,
		encoder:          enc,
	}, nil
}

// Enabled reports whether any mimetype is configured.
// A disabled compressor should not be registered at all.
func (c *Compressor) Enabled() bool {
	return len(c.mimetypes) > 0
}

// Process decides whether resp is compressed and, if so, replaces its body
// with the gzip stream and sets Content-Encoding and Content-Length.
// Any response of a configured mimetype gets "Accept-Encoding" in Vary,
// compressed or not.
//
// The same resp is always returned. The error is non-nil only when
// compression itself failed (*ConstraintViolation); in that case the body
// and Content-* headers are left as they were and the caller must not
// treat the response as compressed.
func (c *Compressor) Process(resp *Response, reqHeader http.Header, debug bool) (*Response, error) {
	_, err := c.process(resp, reqHeader, debug)
	return resp, err
}

func (c *Compressor) process(resp *Response, reqHeader http.Header, debug bool) (Outcome, error) {
	if resp.Header == nil {
		if _, ok := c.mimetypes[resp.Mimetype]; !ok {
			return OutcomeIgnored, nil
		}
		resp.Header = make(http.Header)
	}
	if !c.announce(resp.Header, resp.Mimetype) {
		return OutcomeIgnored, nil
	}

	if debug && !c.debugCompression {
		return OutcomeDebug, nil
	}

	if !strings.Contains(strings.ToLower(reqHeader.Get(headerAcceptEncoding)), encodingGzip) {
		return OutcomeNotAccepted, nil
	}

	resp.Passthrough = false

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices ||
		len(resp.Body) < c.minSize ||
		resp.Header.Get(headerContentEncoding) != "" {
		return OutcomeIneligible, nil
	}

	compressed, err := c.encoder.encode(resp.Body)
	if err != nil {
		return OutcomeFailed, err
	}

	resp.Body = compressed
	resp.Header.Set(headerContentEncoding, encodingGzip)
	resp.Header.Set(headerContentLength, strconv.Itoa(len(compressed)))

	return OutcomeCompressed, nil
}

// announce applies the mimetype gate and, for a configured mimetype, adds
// Accept-Encoding to Vary. It reports whether the mimetype is configured.
// Responses that are sent without a body or streamed still go through it.
func (c *Compressor) announce(h http.Header, mimetype string) bool {
	if _, ok := c.mimetypes[mimetype]; !ok {
		return false
	}
	addVary(h, headerAcceptEncoding)

	return true
}

// addVary appends token to the Vary header unless it is already listed.
// An absent or empty Vary is set fresh.
func addVary(h http.Header, token string) {
	current := strings.Join(h.Values(headerVary), ", ")
	if strings.TrimSpace(current) == "" {
		h.Set(headerVary, token)
		return
	}

	for field := range strings.SplitSeq(current, ",") {
		if strings.EqualFold(strings.TrimSpace(field), token) {
			return
		}
	}

	h.Set(headerVary, current+", "+token)
}
