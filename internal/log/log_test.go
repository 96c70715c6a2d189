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

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/trace"
)

func TestSeverityToLevel(t *testing.T) {
	tcs := []struct {
		name string
		in   string
		want slog.Level
	}{
		{
			name: "test debug",
			in:   "Debug",
			want: slog.LevelDebug,
		},
		{
			name: "test info",
			in:   "info",
			want: slog.LevelInfo,
		},
		{
			name: "test warn",
			in:   "WARN",
			want: slog.LevelWarn,
		},
		{
			name: "test error",
			in:   "Error",
			want: slog.LevelError,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SeverityToLevel(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tc.want {
				t.Fatalf("incorrect level to severity: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSeverityToLevelError(t *testing.T) {
	_, err := SeverityToLevel("fail")
	if err == nil {
		t.Fatalf("expected error on incorrect level")
	}
}

func TestLevelToSeverity(t *testing.T) {
	for _, want := range []string{Debug, Info, Warn, Error} {
		l, err := SeverityToLevel(want)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		got, err := levelToSeverity(l.String())
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if got != want {
			t.Fatalf("incorrect level to severity: got %v, want %v", got, want)
		}
	}
	if _, err := levelToSeverity("fail"); err == nil {
		t.Fatalf("expected error on incorrect slog level")
	}
}

func TestNewLoggerInvalidFormat(t *testing.T) {
	if _, err := NewLogger("xml", "info", new(bytes.Buffer), new(bytes.Buffer)); err == nil {
		t.Fatalf("expected error on unknown format")
	}
	if _, err := NewLogger("json", "verbose", new(bytes.Buffer), new(bytes.Buffer)); err == nil {
		t.Fatalf("expected error on unknown level")
	}
}

var severities = []string{"debug", "info", "warn", "error"}

func runLogger(logger Logger, logMsg string, keysAndValues ...interface{}) {
	ctx := context.Background()
	switch logMsg {
	case "info":
		logger.InfoContext(ctx, "log info", keysAndValues...)
	case "debug":
		logger.DebugContext(ctx, "log debug", keysAndValues...)
	case "warn":
		logger.WarnContext(ctx, "log warn", keysAndValues...)
	case "error":
		logger.ErrorContext(ctx, "log error", keysAndValues...)
	}
}

// expectedStreams returns which writer a record at msgSev lands in for a
// logger configured at loggerSev: "out", "err" or "" when it is filtered.
func expectedStreams(loggerSev, msgSev string) string {
	loggerLevel, _ := SeverityToLevel(loggerSev)
	msgLevel, _ := SeverityToLevel(msgSev)
	switch {
	case msgLevel < loggerLevel:
		return ""
	case msgLevel >= slog.LevelWarn:
		return "err"
	default:
		return "out"
	}
}

func TestStdLogger(t *testing.T) {
	for _, loggerSev := range severities {
		for _, msgSev := range severities {
			name := fmt.Sprintf("%s logger logging %s", loggerSev, msgSev)
			t.Run(name, func(t *testing.T) {
				outW := new(bytes.Buffer)
				errW := new(bytes.Buffer)

				logger, err := NewStdLogger(outW, errW, loggerSev)
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				runLogger(logger, msgSev)

				line := fmt.Sprintf("%s \"log %s\" \n", strings.ToUpper(msgSev), msgSev)
				var wantOut, wantErr string
				switch expectedStreams(loggerSev, msgSev) {
				case "out":
					wantOut = line
				case "err":
					wantErr = line
				}

				if diff := cmp.Diff(wantOut, stripTime(outW.String())); diff != "" {
					t.Fatalf("incorrect out log: diff %v", diff)
				}
				if diff := cmp.Diff(wantErr, stripTime(errW.String())); diff != "" {
					t.Fatalf("incorrect err log: diff %v", diff)
				}
			})
		}
	}
}

// stripTime drops the leading timestamp of a standard log line.
func stripTime(s string) string {
	if s == "" {
		return s
	}
	return s[strings.Index(s, " ")+1:]
}

func TestStdLoggerServiceAndCode(t *testing.T) {
	tcs := []struct {
		name          string
		keysAndValues []interface{}
		want          string
	}{
		{
			name:          "service and code",
			keysAndValues: []interface{}{ServiceKey, "AppCheck", CodeKey, "I-FAA005001"},
			want:          "DEBUG [AppCheck][I-FAA005001] \"log debug\" \n",
		},
		{
			name:          "code only",
			keysAndValues: []interface{}{CodeKey, "I-FAA005001"},
			want:          "DEBUG [][I-FAA005001] \"log debug\" \n",
		},
		{
			name:          "extra values follow the message",
			keysAndValues: []interface{}{ServiceKey, "AppCheck", CodeKey, "I-FAA003001", "status", 503},
			want:          "DEBUG [AppCheck][I-FAA003001] \"log debug\" 503 \n",
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			outW := new(bytes.Buffer)
			logger, err := NewStdLogger(outW, new(bytes.Buffer), "debug")
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			runLogger(logger, "debug", tc.keysAndValues...)
			if diff := cmp.Diff(tc.want, stripTime(outW.String())); diff != "" {
				t.Fatalf("incorrect log: diff %v", diff)
			}
		})
	}
}

func TestValueTextHandlerWithAttrs(t *testing.T) {
	out := new(bytes.Buffer)
	h := NewValueTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h).With(ServiceKey, "AppCheck")
	logger.Debug("bound service", CodeKey, "I-FAA001001")

	want := "DEBUG [AppCheck][I-FAA001001] \"bound service\" \n"
	if diff := cmp.Diff(want, stripTime(out.String())); diff != "" {
		t.Fatalf("incorrect log: diff %v", diff)
	}
}

func TestStructuredLogger(t *testing.T) {
	for _, loggerSev := range severities {
		for _, msgSev := range severities {
			name := fmt.Sprintf("%s logger logging %s", loggerSev, msgSev)
			t.Run(name, func(t *testing.T) {
				outW := new(bytes.Buffer)
				errW := new(bytes.Buffer)

				logger, err := NewStructuredLogger(outW, errW, loggerSev)
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				runLogger(logger, msgSev, ServiceKey, "AppCheck", CodeKey, "I-FAA005001")

				stream := expectedStreams(loggerSev, msgSev)
				check := func(w *bytes.Buffer, want bool) {
					if !want {
						if w.String() != "" {
							t.Fatalf("incorrect log. got %v, want %v", w.String(), "")
						}
						return
					}
					got := make(map[string]interface{})
					if err := json.Unmarshal(w.Bytes(), &got); err != nil {
						t.Fatalf("failed to parse writer: %s", err)
					}
					for k, v := range map[string]string{
						"severity": strings.ToUpper(msgSev),
						"message":  "log " + msgSev,
						ServiceKey: "AppCheck",
						CodeKey:    "I-FAA005001",
					} {
						if got[k] != v {
							t.Fatalf("incorrect %s: got %v, want %v", k, got[k], v)
						}
					}
					if _, ok := got["timestamp"]; !ok {
						t.Fatalf("missing timestamp in %v", got)
					}
				}
				check(outW, stream == "out")
				check(errW, stream == "err")
			})
		}
	}
}

func TestStructuredLoggerSpanContext(t *testing.T) {
	outW := new(bytes.Buffer)
	logger, err := NewStructuredLogger(outW, new(bytes.Buffer), "debug")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	logger.DebugContext(ctx, "traced")

	got := make(map[string]interface{})
	if err := json.Unmarshal(outW.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse writer: %s", err)
	}
	want := map[string]interface{}{
		"logging.googleapis.com/trace":         sc.TraceID().String(),
		"logging.googleapis.com/spanId":        sc.SpanID().String(),
		"logging.googleapis.com/trace_sampled": true,
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("incorrect %s: got %v, want %v", k, got[k], v)
		}
	}
}

func TestMultiLogger(t *testing.T) {
	first := new(bytes.Buffer)
	second := new(bytes.Buffer)
	a, err := NewStdLogger(first, first, "debug")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	b, err := NewStdLogger(second, second, "warn")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	m := NewMultiLogger(a, nil, b)
	runLogger(m, "info")
	runLogger(m, "error")

	if got := strings.Count(first.String(), "\n"); got != 2 {
		t.Fatalf("first logger: got %d lines, want 2", got)
	}
	if got := strings.Count(second.String(), "\n"); got != 1 {
		t.Fatalf("second logger: got %d lines, want 1", got)
	}
}

func TestLogAt(t *testing.T) {
	tcs := []struct {
		level slog.Level
		want  string
	}{
		{level: slog.LevelDebug - 2, want: "DEBUG"},
		{level: slog.LevelDebug, want: "DEBUG"},
		{level: slog.LevelInfo + 1, want: "INFO"},
		{level: slog.LevelWarn, want: "WARN"},
		{level: slog.LevelError + 4, want: "ERROR"},
	}
	for _, tc := range tcs {
		t.Run(tc.level.String(), func(t *testing.T) {
			buf := new(bytes.Buffer)
			logger, err := NewStdLogger(buf, buf, "debug")
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			LogAt(context.Background(), logger, tc.level, "msg")
			if got := strings.Fields(buf.String())[1]; got != tc.want {
				t.Fatalf("got level %q, want %q", got, tc.want)
			}
		})
	}
}
