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
	"github.com/firebase/appcheck-log/internal/config"
	"github.com/spf13/cobra"
)

// PersistentFlags sets up flags that are available for all commands and
// subcommands
// It is also used to set up persistent flags during subcommand unit tests
func PersistentFlags(parentCmd *cobra.Command, opts *Options) {
	persistentFlags := parentCmd.PersistentFlags()

	persistentFlags.StringVar(&opts.ConfigFile, "config", "", "YAML file with logging settings. Flags given on the command line take precedence.")
	persistentFlags.Var(&opts.Cfg.LogLevel, config.FlagLogLevel, "Specify the minimum level logged. Allowed: 'DEBUG', 'INFO', 'WARN', 'ERROR'.")
	persistentFlags.Var(&opts.Cfg.LoggingFormat, config.FlagLoggingFormat, "Specify logging format to use. Allowed: 'standard' or 'JSON'.")
	persistentFlags.StringToStringVar(&opts.ServiceLevels, config.FlagServiceLevel, map[string]string{}, "Minimum level for a single service, as name=level. Can be specified multiple times.")
	persistentFlags.StringVar(&opts.Cfg.CloudLogging.Project, config.FlagCloudLoggingProject, "", "Also send records to Cloud Logging in this Google Cloud project.")
	persistentFlags.StringVar(&opts.Cfg.CloudLogging.LogID, config.FlagCloudLoggingLogID, "appcheck", "Cloud Logging log name records are written to.")
	persistentFlags.BoolVar(&opts.Cfg.Telemetry.GCP, config.FlagTelemetryGCP, false, "Enable exporting directly to Google Cloud Monitoring.")
	persistentFlags.StringVar(&opts.Cfg.Telemetry.OTLP, config.FlagTelemetryOTLP, "", "Enable exporting using OpenTelemetry Protocol (OTLP) to the specified endpoint (e.g. 'http://127.0.0.1:4318')")
	persistentFlags.StringVar(&opts.Cfg.Telemetry.ServiceName, config.FlagTelemetryServiceName, "appcheck-log", "Sets the value of the service.name resource attribute for telemetry data.")
}
