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

package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/firebase/appcheck-log/internal/config"
	"github.com/firebase/appcheck-log/internal/log"
	"github.com/firebase/appcheck-log/internal/telemetry"
	"github.com/firebase/appcheck-log/internal/util"
	"google.golang.org/api/option"
)

type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// Options holds dependencies shared by all commands.
type Options struct {
	IOStreams IOStreams
	Logger    log.Logger
	Registry  *log.Registry
	Cfg       config.Config
	// ConfigFile is an optional YAML file merged under the flags.
	ConfigFile string
	// ServiceLevels holds raw --service-level name=level pairs.
	ServiceLevels map[string]string
}

// Option defines a function that modifies the Options struct.
type Option func(*Options)

// NewOptions creates a new instance with defaults, then applies any
// provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		IOStreams: IOStreams{
			In:     os.Stdin,
			Out:    os.Stdout,
			ErrOut: os.Stderr,
		},
	}

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithIOStreams updates the IO streams.
func WithIOStreams(out, err io.Writer) Option {
	return func(o *Options) {
		o.IOStreams.Out = out
		o.IOStreams.ErrOut = err
	}
}

// LoadConfig merges the config file, if any, under the flag values and
// validates the result. isSet reports whether a flag was given explicitly.
func (opts *Options) LoadConfig(isSet func(flag string) bool) error {
	if opts.ConfigFile != "" {
		fileCfg, err := config.LoadFile(opts.ConfigFile)
		if err != nil {
			return err
		}
		opts.Cfg.Merge(fileCfg, isSet)
	}
	if err := opts.Cfg.SetServiceLevels(opts.ServiceLevels); err != nil {
		return err
	}
	return opts.Cfg.Validate()
}

// Setup creates the logging backend, telemetry instrumentation and the
// service registry. The returned shutdown flushes the backends.
func (opts *Options) Setup(ctx context.Context) (context.Context, func(context.Context) error, error) {
	logger, err := log.NewLogger(opts.Cfg.LoggingFormat.String(), opts.Cfg.LogLevel.String(), opts.IOStreams.Out, opts.IOStreams.ErrOut)
	if err != nil {
		return ctx, nil, fmt.Errorf("unable to initialize logger: %w", err)
	}

	ctx = util.WithUserAgent(ctx, opts.Cfg.Version)

	var closers []func() error
	if cl := opts.Cfg.CloudLogging; cl.Project != "" {
		userAgent, err := util.UserAgentFromContext(ctx)
		if err != nil {
			return ctx, nil, err
		}
		cloudLogger, closeCloud, err := log.NewCloudLogger(ctx, cl.Project, cl.LogID, opts.Cfg.LogLevel.String(), option.WithUserAgent(userAgent))
		if err != nil {
			errMsg := fmt.Errorf("unable to initialize Cloud Logging: %w", err)
			logger.ErrorContext(ctx, errMsg.Error())
			return ctx, nil, errMsg
		}
		closers = append(closers, closeCloud)
		logger = log.NewMultiLogger(logger, cloudLogger)
	}

	ctx = util.WithLogger(ctx, logger)
	opts.Logger = logger

	otelShutdown, err := telemetry.SetupOTel(ctx, telemetry.Options{
		Version:      opts.Cfg.Version,
		ServiceName:  opts.Cfg.Telemetry.ServiceName,
		OTLPEndpoint: opts.Cfg.Telemetry.OTLP,
		GCP:          opts.Cfg.Telemetry.GCP,
		GCPProjectID: opts.Cfg.CloudLogging.Project,
	})
	if err != nil {
		errMsg := fmt.Errorf("error setting up OpenTelemetry: %w", err)
		logger.ErrorContext(ctx, errMsg.Error())
		for _, c := range closers {
			_ = c()
		}
		return ctx, nil, errMsg
	}

	shutdownFunc := func(ctx context.Context) error {
		var err error
		if otelErr := otelShutdown(ctx); otelErr != nil {
			err = fmt.Errorf("error shutting down OpenTelemetry: %w", otelErr)
		}
		for _, c := range closers {
			if closeErr := c(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("error flushing Cloud Logging: %w", closeErr))
			}
		}
		if err != nil {
			logger.ErrorContext(ctx, err.Error())
		}
		return err
	}

	instrumentation, err := telemetry.CreateTelemetryInstrumentation(opts.Cfg.Version)
	if err != nil {
		errMsg := fmt.Errorf("unable to create telemetry instrumentation: %w", err)
		logger.ErrorContext(ctx, errMsg.Error())
		return ctx, shutdownFunc, errMsg
	}
	ctx = util.WithInstrumentation(ctx, instrumentation)

	registryOpts := []log.RegistryOption{log.WithInstrumentation(instrumentation)}
	for name, level := range opts.Cfg.ServiceSlogLevels() {
		registryOpts = append(registryOpts, log.WithServiceLevel(name, level))
	}
	opts.Registry = log.NewRegistry(logger, registryOpts...)

	return ctx, shutdownFunc, nil
}
