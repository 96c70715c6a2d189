// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"strings"

	"github.com/firebase/appcheck-log/internal/log"
	"github.com/firebase/appcheck-log/internal/util"
	"github.com/go-playground/validator/v10"
)

// Names of the flags bound to Config fields. A flag given on the command
// line wins over the same setting in a config file.
const (
	FlagLogLevel             = "log-level"
	FlagLoggingFormat        = "logging-format"
	FlagCloudLoggingProject  = "cloud-logging-project"
	FlagCloudLoggingLogID    = "cloud-logging-log-id"
	FlagTelemetryGCP         = "telemetry-gcp"
	FlagTelemetryOTLP        = "telemetry-otlp"
	FlagTelemetryServiceName = "telemetry-service-name"
	FlagServiceLevel         = "service-level"
)

type Config struct {
	// Version of the running binary.
	Version string `yaml:"-"`
	// LoggingFormat defines whether structured loggings are used.
	LoggingFormat LogFormat `yaml:"loggingFormat"`
	// LogLevel defines the minimum level the backend writes.
	LogLevel StringLevel `yaml:"logLevel"`
	// ServiceLevels defines per-service minimum levels, keyed by service name.
	ServiceLevels map[string]StringLevel `yaml:"services"`
	// CloudLogging enables the Cloud Logging backend when Project is set.
	CloudLogging CloudLoggingConfig `yaml:"cloudLogging"`
	// Telemetry defines where OpenTelemetry data is exported.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type CloudLoggingConfig struct {
	// Project is the Google Cloud project receiving entries.
	Project string `yaml:"project"`
	// LogID is the log name entries are written to.
	LogID string `yaml:"logId" validate:"required_with=Project"`
}

type TelemetryConfig struct {
	// GCP defines whether GCP exporter is used.
	GCP bool `yaml:"gcp"`
	// OTLP defines OTLP collector url for telemetry exports.
	OTLP string `yaml:"otlp"`
	// ServiceName defines the value of service.name resource attribute.
	ServiceName string `yaml:"serviceName"`
}

// Parse decodes a YAML config. Unknown keys and invalid values are errors.
func Parse(raw []byte) (Config, error) {
	var c Config
	if err := util.NewStrictDecoder(raw).Decode(&c); err != nil {
		if err == io.EOF {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("unable to parse config: %w", err)
	}
	return c, nil
}

// LoadFile reads and parses the YAML config at path.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config file at %q: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}
	return c, nil
}

// Merge copies the settings of file into c, except those whose flag isSet
// reports as given on the command line. Service levels are merged per
// service, with c's entries winning.
func (c *Config) Merge(file Config, isSet func(flag string) bool) {
	if !isSet(FlagLoggingFormat) && file.LoggingFormat != "" {
		c.LoggingFormat = file.LoggingFormat
	}
	if !isSet(FlagLogLevel) && file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if !isSet(FlagCloudLoggingProject) && file.CloudLogging.Project != "" {
		c.CloudLogging.Project = file.CloudLogging.Project
	}
	if !isSet(FlagCloudLoggingLogID) && file.CloudLogging.LogID != "" {
		c.CloudLogging.LogID = file.CloudLogging.LogID
	}
	if !isSet(FlagTelemetryGCP) && file.Telemetry.GCP {
		c.Telemetry.GCP = true
	}
	if !isSet(FlagTelemetryOTLP) && file.Telemetry.OTLP != "" {
		c.Telemetry.OTLP = file.Telemetry.OTLP
	}
	if !isSet(FlagTelemetryServiceName) && file.Telemetry.ServiceName != "" {
		c.Telemetry.ServiceName = file.Telemetry.ServiceName
	}
	if len(file.ServiceLevels) > 0 {
		merged := maps.Clone(file.ServiceLevels)
		maps.Copy(merged, c.ServiceLevels)
		c.ServiceLevels = merged
	}
}

// SetServiceLevels parses name=level pairs into c.ServiceLevels.
func (c *Config) SetServiceLevels(pairs map[string]string) error {
	for name, v := range pairs {
		var l StringLevel
		if err := l.Set(v); err != nil {
			return fmt.Errorf("service %q: %w", name, err)
		}
		if c.ServiceLevels == nil {
			c.ServiceLevels = make(map[string]StringLevel)
		}
		c.ServiceLevels[name] = l
	}
	return nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ServiceSlogLevels returns ServiceLevels as slog levels.
func (c *Config) ServiceSlogLevels() map[string]slog.Level {
	out := make(map[string]slog.Level, len(c.ServiceLevels))
	for name, l := range c.ServiceLevels {
		out[name] = l.Level()
	}
	return out
}

type LogFormat string

// String is used by both fmt.Print and by Cobra in help text
func (f *LogFormat) String() string {
	if string(*f) != "" {
		return strings.ToLower(string(*f))
	}
	return "standard"
}

// validate logging format flag
func (f *LogFormat) Set(v string) error {
	switch strings.ToLower(v) {
	case "standard", "json":
		*f = LogFormat(v)
		return nil
	default:
		return fmt.Errorf(`log format must be one of "standard", or "json"`)
	}
}

// Type is used in Cobra help text
func (f *LogFormat) Type() string {
	return "logFormat"
}

func (f *LogFormat) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return f.Set(s)
}

type StringLevel string

// String is used by both fmt.Print and by Cobra in help text
func (s *StringLevel) String() string {
	if string(*s) != "" {
		return strings.ToLower(string(*s))
	}
	return "info"
}

// validate log level flag
func (s *StringLevel) Set(v string) error {
	switch strings.ToLower(v) {
	case "debug", "info", "warn", "error":
		*s = StringLevel(v)
		return nil
	default:
		return fmt.Errorf(`log level must be one of "debug", "info", "warn", or "error"`)
	}
}

// Type is used in Cobra help text
func (s *StringLevel) Type() string {
	return "stringLevel"
}

func (s *StringLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v string
	if err := unmarshal(&v); err != nil {
		return err
	}
	return s.Set(v)
}

// Level returns the slog level, defaulting to info.
func (s StringLevel) Level() slog.Level {
	l, err := log.SeverityToLevel(s.String())
	if err != nil {
		return slog.LevelInfo
	}
	return l
}
