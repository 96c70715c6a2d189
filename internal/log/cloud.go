// Copyright 2026 Google LLC
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

package log

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"cloud.google.com/go/logging"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
)

// entryLogger is satisfied by *logging.Logger.
type entryLogger interface {
	Log(logging.Entry)
}

// CloudLogger sends records to Cloud Logging. The service and code of a
// record become entry labels so they can be used in log filters.
type CloudLogger struct {
	logger *slog.Logger
}

// NewCloudLogger creates a Logger writing to the log logID of project.
// The returned close function flushes buffered entries and releases the client.
func NewCloudLogger(ctx context.Context, project, logID, logLevel string, opts ...option.ClientOption) (Logger, func() error, error) {
	programLevel := new(slog.LevelVar)
	slogLevel, err := SeverityToLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}
	programLevel.Set(slogLevel)

	client, err := logging.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Cloud Logging client for project %q: %w", project, err)
	}
	return newCloudLogger(client.Logger(logID), project, programLevel), client.Close, nil
}

func newCloudLogger(l entryLogger, project string, level slog.Leveler) *CloudLogger {
	return &CloudLogger{
		logger: slog.New(&cloudHandler{logger: l, project: project, level: level}),
	}
}

// DebugContext logs debug messages
func (cl *CloudLogger) DebugContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	cl.logger.DebugContext(ctx, msg, keysAndValues...)
}

// InfoContext logs info messages
func (cl *CloudLogger) InfoContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	cl.logger.InfoContext(ctx, msg, keysAndValues...)
}

// WarnContext logs warning messages
func (cl *CloudLogger) WarnContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	cl.logger.WarnContext(ctx, msg, keysAndValues...)
}

// ErrorContext logs error messages
func (cl *CloudLogger) ErrorContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	cl.logger.ErrorContext(ctx, msg, keysAndValues...)
}

// cloudHandler converts slog records into Cloud Logging entries.
type cloudHandler struct {
	logger  entryLogger
	project string
	level   slog.Leveler
	attrs   []slog.Attr
}

func (h *cloudHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *cloudHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &cloudHandler{
		logger:  h.logger,
		project: h.project,
		level:   h.level,
		attrs:   append(slices.Clip(h.attrs), attrs...),
	}
}

func (h *cloudHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *cloudHandler) Handle(ctx context.Context, r slog.Record) error {
	e := logging.Entry{
		Timestamp: r.Time,
		Severity:  levelToCloudSeverity(r.Level),
	}

	payload := map[string]any{}
	add := func(a slog.Attr) {
		v := a.Value.Resolve()
		switch a.Key {
		case ServiceKey, CodeKey:
			if e.Labels == nil {
				e.Labels = map[string]string{}
			}
			e.Labels[a.Key] = v.String()
		default:
			if a.Key != "" {
				payload[a.Key] = v.Any()
			}
		}
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(a)
		return true
	})

	if len(payload) == 0 {
		e.Payload = r.Message
	} else {
		payload["message"] = r.Message
		e.Payload = payload
	}

	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		e.Trace = s.TraceID().String()
		if h.project != "" {
			e.Trace = fmt.Sprintf("projects/%s/traces/%s", h.project, s.TraceID())
		}
		e.SpanID = s.SpanID().String()
		e.TraceSampled = s.TraceFlags().IsSampled()
	}

	h.logger.Log(e)
	return nil
}

func levelToCloudSeverity(l slog.Level) logging.Severity {
	switch {
	case l >= slog.LevelError:
		return logging.Error
	case l >= slog.LevelWarn:
		return logging.Warning
	case l >= slog.LevelInfo:
		return logging.Info
	default:
		return logging.Debug
	}
}
