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
	"context"
)

// Logger is the backend every registered Service writes to. Implementations
// must be safe for concurrent use.
type Logger interface {
	// DebugContext is for reporting additional information about internal operations.
	DebugContext(ctx context.Context, msg string, keysAndValues ...interface{})
	// InfoContext is for reporting informational messages.
	InfoContext(ctx context.Context, msg string, keysAndValues ...interface{})
	// WarnContext is for reporting warning messages.
	WarnContext(ctx context.Context, msg string, keysAndValues ...interface{})
	// ErrorContext is for reporting errors.
	ErrorContext(ctx context.Context, msg string, keysAndValues ...interface{})
}

// NopLogger returns a Logger that drops every record.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) DebugContext(context.Context, string, ...interface{}) {}
func (nopLogger) InfoContext(context.Context, string, ...interface{})  {}
func (nopLogger) WarnContext(context.Context, string, ...interface{})  {}
func (nopLogger) ErrorContext(context.Context, string, ...interface{}) {}
