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
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "rivaas.dev/compress"

// Metric names.
const (
	MetricResponses = "http.server.compression.responses"
	MetricBytesIn   = "http.server.compression.bytes.in"
	MetricBytesOut  = "http.server.compression.bytes.out"
)

// metricsRecorder holds the compression instruments.
type metricsRecorder struct {
	responses metric.Int64Counter
	bytesIn   metric.Int64Counter
	bytesOut  metric.Int64Counter
}

func newMetricsRecorder(mp metric.MeterProvider) (*metricsRecorder, error) {
	meter := mp.Meter(meterName)

	var (
		r    metricsRecorder
		err  error
		errs []error
	)

	r.responses, err = meter.Int64Counter(
		MetricResponses,
		metric.WithDescription("Responses seen by the compression middleware, by outcome"),
		metric.WithUnit("{response}"),
	)
	errs = append(errs, err)

	r.bytesIn, err = meter.Int64Counter(
		MetricBytesIn,
		metric.WithDescription("Body bytes before compression"),
		metric.WithUnit("By"),
	)
	errs = append(errs, err)

	r.bytesOut, err = meter.Int64Counter(
		MetricBytesOut,
		metric.WithDescription("Body bytes after compression"),
		metric.WithUnit("By"),
	)
	errs = append(errs, err)

	if err = errors.Join(errs...); err != nil {
		return nil, err
	}

	return &r, nil
}

func (r *metricsRecorder) record(ctx context.Context, outcome Outcome, in, out int) {
	r.responses.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))

	if outcome == OutcomeCompressed {
		r.bytesIn.Add(ctx, int64(in))
		r.bytesOut.Add(ctx, int64(out))
	}
}
