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
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// Option defines functional options for the compression middleware.
type Option func(*options)

// options holds the middleware configuration.
type options struct {
	cfg Config

	// debug reports whether the host application runs in debug mode
	debug bool

	// logger is the structured logger for outcomes and failures
	logger *slog.Logger

	// meterProvider supplies the compression counters; nil means the global provider
	meterProvider metric.MeterProvider
}

func defaultOptions() *options {
	return &options{cfg: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
//
// Example:
//
//	cfg := compress.DefaultConfig()
//	cfg.MinSize = 1024
//	r.Use(compress.New(compress.WithConfig(cfg)))
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
		o.cfg.Mimetypes = append([]string(nil), cfg.Mimetypes...)
	}
}

// WithSettings builds the configuration from a host settings store, see
// [ConfigFromSettings]. It panics if the settings are invalid.
//
// Example:
//
//	r.Use(compress.New(compress.WithSettings(map[string]any{
//	    "COMPRESS_LEVEL": 9,
//	    "COMPRESS_DEBUG": true,
//	})))
func WithSettings(settings map[string]any) Option {
	return func(o *options) {
		cfg, err := ConfigFromSettings(settings)
		if err != nil {
			panic(err)
		}
		o.cfg = cfg
	}
}

// WithMimetypes sets the media types eligible for compression, replacing
// the defaults. With no types the middleware is disabled entirely.
//
// Example:
//
//	compress.New(compress.WithMimetypes("text/html", "image/svg+xml"))
func WithMimetypes(mimetypes ...string) Option {
	return func(o *options) {
		o.cfg.Mimetypes = append([]string(nil), mimetypes...)
	}
}

// WithLevel sets the gzip compression level.
// Valid values: 0 (no compression) to 9 (best compression).
// Default: 6
func WithLevel(level int) Option {
	return func(o *options) {
		o.cfg.Level = level
	}
}

// WithMinSize sets the minimum body size to compress, in bytes.
// Default: 500
func WithMinSize(size int) Option {
	return func(o *options) {
		o.cfg.MinSize = size
	}
}

// WithDebugCompression enables compression while the host runs in debug mode.
// Default: false
func WithDebugCompression(enabled bool) Option {
	return func(o *options) {
		o.cfg.DebugCompression = enabled
	}
}

// WithDebug tells the middleware whether the host application runs in
// debug mode. Unless [WithDebugCompression] is set, responses are then
// only announced through Vary and never compressed.
//
// Example:
//
//	compress.New(compress.WithDebug(env == "development"))
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithLogger sets the slog.Logger for outcome and error logging.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for the
// compression counters. Default: otel.GetMeterProvider()
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}
