// Copyright 2024 Google LLC
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

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "github.com/firebase/appcheck-log/internal/telemetry"
	MetricName = "github.com/firebase/appcheck-log/internal/telemetry"

	logRecordCountName = "appcheck.log.record.count"
)

// Instrumentation defines the telemetry instrumentation for the logging facade
type Instrumentation struct {
	Tracer trace.Tracer
	meter  metric.Meter
	// LogRecords counts emitted records by service, code and level.
	LogRecords metric.Int64Counter
}

func CreateTelemetryInstrumentation(versionString string) (*Instrumentation, error) {
	tracer := otel.Tracer(
		TracerName,
		trace.WithInstrumentationVersion(versionString),
	)

	meter := otel.Meter(MetricName, metric.WithInstrumentationVersion(versionString))
	logRecords, err := meter.Int64Counter(
		logRecordCountName,
		metric.WithDescription("Number of log records emitted, by service, message code and level."),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s metric: %w", logRecordCountName, err)
	}

	instrumentation := &Instrumentation{
		Tracer:     tracer,
		meter:      meter,
		LogRecords: logRecords,
	}
	return instrumentation, nil
}
