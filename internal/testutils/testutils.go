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

package testutils

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/firebase/appcheck-log/internal/log"
	"github.com/firebase/appcheck-log/internal/util"
)

// ContextWithNewLogger create a new context with new logger
func ContextWithNewLogger() (context.Context, error) {
	ctx := context.Background()
	logger, err := log.NewStdLogger(os.Stdout, os.Stderr, "info")
	if err != nil {
		return nil, fmt.Errorf("unable to create logger: %s", err)
	}
	return util.WithLogger(ctx, logger), nil
}

// Record is one call received by a RecordingLogger.
type Record struct {
	Level   string
	Message string
	Service string
	Code    string
}

// RecordingLogger is a log.Logger that keeps every record in memory.
type RecordingLogger struct {
	mu      sync.Mutex
	records []Record
}

var _ log.Logger = &RecordingLogger{}

func (l *RecordingLogger) record(level, msg string, keysAndValues []interface{}) {
	r := Record{Level: level, Message: msg}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		v := fmt.Sprint(keysAndValues[i+1])
		switch keysAndValues[i] {
		case log.ServiceKey:
			r.Service = v
		case log.CodeKey:
			r.Code = v
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// Records returns a copy of the records received so far.
func (l *RecordingLogger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *RecordingLogger) DebugContext(_ context.Context, msg string, keysAndValues ...interface{}) {
	l.record(log.Debug, msg, keysAndValues)
}

func (l *RecordingLogger) InfoContext(_ context.Context, msg string, keysAndValues ...interface{}) {
	l.record(log.Info, msg, keysAndValues)
}

func (l *RecordingLogger) WarnContext(_ context.Context, msg string, keysAndValues ...interface{}) {
	l.record(log.Warn, msg, keysAndValues)
}

func (l *RecordingLogger) ErrorContext(_ context.Context, msg string, keysAndValues ...interface{}) {
	l.record(log.Error, msg, keysAndValues)
}

// PanickingLogger is a log.Logger whose every method panics.
type PanickingLogger struct{}

func (PanickingLogger) DebugContext(context.Context, string, ...interface{}) { panic("debug") }
func (PanickingLogger) InfoContext(context.Context, string, ...interface{})  { panic("info") }
func (PanickingLogger) WarnContext(context.Context, string, ...interface{})  { panic("warn") }
func (PanickingLogger) ErrorContext(context.Context, string, ...interface{}) { panic("error") }
