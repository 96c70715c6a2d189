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
	"log/slog"
	"slices"
	"sync"

	"github.com/firebase/appcheck-log/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry hands out one Service per subsystem name. All services of a
// registry share its backend Logger.
type Registry struct {
	logger  Logger
	records metric.Int64Counter

	mu       sync.Mutex
	services map[string]*Service
	levels   map[string]slog.Level
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithInstrumentation counts every emitted record on the instrumentation's
// log record counter.
func WithInstrumentation(i *telemetry.Instrumentation) RegistryOption {
	return func(r *Registry) {
		if i != nil {
			r.records = i.LogRecords
		}
	}
}

// WithServiceLevel sets the minimum level of the named service, whether it
// is registered already or later.
func WithServiceLevel(name string, level slog.Level) RegistryOption {
	return func(r *Registry) {
		r.levels[name] = level
	}
}

// NewRegistry creates a Registry writing to logger. A nil logger drops all records.
func NewRegistry(logger Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = NopLogger()
	}
	r := &Registry{
		logger:   logger,
		services: make(map[string]*Service),
		levels:   make(map[string]slog.Level),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register returns the Service named name, creating it on first use.
// Concurrent callers for the same name all receive the same *Service.
func (r *Registry) Register(name string) *Service {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.services[name]; ok {
		return s
	}
	s := &Service{
		name:    name,
		logger:  r.logger,
		records: r.records,
	}
	s.level.Set(slog.LevelDebug)
	if l, ok := r.levels[name]; ok {
		s.level.Set(l)
	}
	r.services[name] = s
	return s
}

// Lookup returns the registered service with the given name.
func (r *Registry) Lookup(name string) (*Service, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[name]
	return s, ok
}

// Names returns the sorted names of all registered services.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.services))
	for n := range r.services {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// SetLevel changes the minimum level of the named service. It also applies
// to a service registered after the call.
func (r *Registry) SetLevel(name string, level slog.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[name] = level
	if s, ok := r.services[name]; ok {
		s.level.Set(level)
	}
}

// Service is the handle of one logging subsystem. Every record it emits is
// tagged with the service name and a message code.
type Service struct {
	name    string
	level   slog.LevelVar
	logger  Logger
	records metric.Int64Counter
}

// Name returns the subsystem name.
func (s *Service) Name() string {
	return s.name
}

func (s *Service) String() string {
	return s.name
}

// Level returns the minimum level emitted by s.
func (s *Service) Level() slog.Level {
	return s.level.Level()
}

// SetLevel changes the minimum level emitted by s.
func (s *Service) SetLevel(level slog.Level) {
	s.level.Set(level)
}

// Enabled reports whether a record at level would be forwarded to the backend.
func (s *Service) Enabled(level slog.Level) bool {
	return s != nil && level >= s.level.Level()
}

// Log forwards msg to the backend, tagged with the service name and code.
// The backend applies its own level filtering after the service's.
func (s *Service) Log(ctx context.Context, level slog.Level, code, msg string) {
	if !s.Enabled(level) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s.records != nil {
		sev, err := levelToSeverity(level.String())
		if err != nil {
			sev = level.String()
		}
		s.records.Add(ctx, 1, metric.WithAttributes(
			attribute.String(ServiceKey, s.name),
			attribute.String(CodeKey, code),
			attribute.String("level", sev),
		))
	}
	LogAt(ctx, s.logger, level, msg, ServiceKey, s.name, CodeKey, code)
}
