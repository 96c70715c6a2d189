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


package cmd

import (
	"bytes"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/firebase/appcheck-log/cmd/internal"
	"github.com/firebase/appcheck-log/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func withDefaults(c config.Config) config.Config {
	data, _ := os.ReadFile("version.txt")
	version := strings.TrimSpace(string(data))
	c.Version = version + "+" + strings.Join([]string{"dev", runtime.GOOS, runtime.GOARCH}, ".")

	if c.CloudLogging.LogID == "" {
		c.CloudLogging.LogID = "appcheck"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "appcheck-log"
	}
	return c
}

func invokeCommand(args []string) (*cobra.Command, *internal.Options, string, error) {
	buf := new(bytes.Buffer)
	opts := internal.NewOptions(internal.WithIOStreams(buf, buf))
	c := NewCommand(opts)

	// Keep the test output quiet
	c.SilenceUsage = true
	c.SilenceErrors = true

	// Capture output
	c.SetOut(buf)
	c.SetErr(buf)
	c.SetArgs(args)

	// Disable execute behavior
	c.RunE = func(*cobra.Command, []string) error {
		return nil
	}

	err := c.Execute()

	return c, opts, buf.String(), err
}

func TestVersion(t *testing.T) {
	data, err := os.ReadFile("version.txt")
	if err != nil {
		t.Fatalf("failed to read version.txt: %v", err)
	}
	want := strings.TrimSpace(string(data))

	_, _, got, err := invokeCommand([]string{"--version"})
	if err != nil {
		t.Fatalf("error invoking command: %s", err)
	}

	if !strings.Contains(got, want) {
		t.Errorf("cli did not return correct version: want %q, got %q", want, got)
	}
}

func TestConfigFlags(t *testing.T) {
	tcs := []struct {
		desc string
		args []string
		want config.Config
	}{
		{
			desc: "default values",
			args: []string{},
			want: withDefaults(config.Config{}),
		},
		{
			desc: "log level",
			args: []string{"--log-level", "WARN"},
			want: withDefaults(config.Config{
				LogLevel: "WARN",
			}),
		},
		{
			desc: "logging format",
			args: []string{"--logging-format", "json"},
			want: withDefaults(config.Config{
				LoggingFormat: "json",
			}),
		},
		{
			desc: "cloud logging",
			args: []string{"--cloud-logging-project", "my-project", "--cloud-logging-log-id", "my-log"},
			want: withDefaults(config.Config{
				CloudLogging: config.CloudLoggingConfig{Project: "my-project", LogID: "my-log"},
			}),
		},
		{
			desc: "telemetry",
			args: []string{"--telemetry-gcp", "--telemetry-otlp", "http://127.0.0.1:4553", "--telemetry-service-name", "my-app"},
			want: withDefaults(config.Config{
				Telemetry: config.TelemetryConfig{
					GCP:         true,
					OTLP:        "http://127.0.0.1:4553",
					ServiceName: "my-app",
				},
			}),
		},
	}
	for _, tc := range tcs {
		t.Run(tc.desc, func(t *testing.T) {
			_, opts, _, err := invokeCommand(tc.args)
			if err != nil {
				t.Fatalf("unexpected error invoking command: %s", err)
			}
			if diff := cmp.Diff(tc.want, opts.Cfg); diff != "" {
				t.Fatalf("incorrect config: diff %v", diff)
			}
		})
	}
}

func TestFailParseFlags(t *testing.T) {
	tcs := []struct {
		desc string
		args []string
	}{
		{
			desc: "logging format",
			args: []string{"--logging-format", "fail"},
		},
		{
			desc: "log level",
			args: []string{"--log-level", "fail"},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.desc, func(t *testing.T) {
			if _, _, _, err := invokeCommand(tc.args); err == nil {
				t.Fatalf("expected an error parsing %v", tc.args)
			}
		})
	}
}

func TestServiceLevelFlag(t *testing.T) {
	_, opts, _, err := invokeCommand([]string{"--service-level", "AppCheck=warn", "--service-level", "Other=error"})
	if err != nil {
		t.Fatalf("unexpected error invoking command: %s", err)
	}
	want := map[string]string{"AppCheck": "warn", "Other": "error"}
	if diff := cmp.Diff(want, opts.ServiceLevels); diff != "" {
		t.Fatalf("incorrect service levels: diff %v", diff)
	}
}

func TestSubcommands(t *testing.T) {
	c := GenerateCommand(new(bytes.Buffer), new(bytes.Buffer))
	var got []string
	for _, sub := range c.Commands() {
		got = append(got, sub.Name())
	}
	for _, want := range []string{"codes", "emit"} {
		if !strings.Contains(strings.Join(got, " "), want) {
			t.Fatalf("missing subcommand %q in %v", want, got)
		}
	}
}
