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

// Package appcheck is the logging facade of the App Check client. Call sites
// tag every record with one of the catalog's message codes and log through a
// Logger bound to the "AppCheck" service.
package appcheck

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/appcheck-log/internal/log"
)

// ServiceName identifies App Check records in the backend.
const ServiceName = "AppCheck"

// RegisterService registers the App Check service with r, or returns it if
// it is registered already.
func RegisterService(r *log.Registry) *log.Service {
	return r.Register(ServiceName)
}

// Logger emits code-tagged records for one service. Logging never fails
// from the caller's point of view: records are dropped when the service is
// nil or filtered, and panics raised while formatting or inside the backend
// are swallowed.
type Logger struct {
	svc *log.Service
}

// NewLogger returns a Logger writing through svc.
func NewLogger(svc *log.Service) *Logger {
	return &Logger{svc: svc}
}

// Debug logs a debug record tagged with code. format and args follow fmt.Sprintf.
func (l *Logger) Debug(code MessageCode, format string, args ...any) {
	l.logf(context.Background(), slog.LevelDebug, code, format, args...)
}

// DebugContext is Debug with a context, used for trace correlation.
func (l *Logger) DebugContext(ctx context.Context, code MessageCode, format string, args ...any) {
	l.logf(ctx, slog.LevelDebug, code, format, args...)
}

// InfoContext logs an informational record tagged with code.
func (l *Logger) InfoContext(ctx context.Context, code MessageCode, format string, args ...any) {
	l.logf(ctx, slog.LevelInfo, code, format, args...)
}

// WarnContext logs a warning record tagged with code.
func (l *Logger) WarnContext(ctx context.Context, code MessageCode, format string, args ...any) {
	l.logf(ctx, slog.LevelWarn, code, format, args...)
}

// ErrorContext logs an error record tagged with code.
func (l *Logger) ErrorContext(ctx context.Context, code MessageCode, format string, args ...any) {
	l.logf(ctx, slog.LevelError, code, format, args...)
}

func (l *Logger) logf(ctx context.Context, level slog.Level, code MessageCode, format string, args ...any) {
	if l == nil || !l.svc.Enabled(level) {
		return
	}
	defer func() {
		_ = recover()
	}()
	if code == "" {
		code = MessageCodeUnknown
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.svc.Log(ctx, level, string(code), msg)
}
