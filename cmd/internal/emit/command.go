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

package emit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/appcheck-log/cmd/internal"
	"github.com/firebase/appcheck-log/internal/appcheck"
	"github.com/firebase/appcheck-log/internal/config"
	"github.com/firebase/appcheck-log/internal/util"
	"github.com/spf13/cobra"
)

func NewCommand(opts *internal.Options) *cobra.Command {
	var code string
	level := config.StringLevel("debug")

	cmd := &cobra.Command{
		Use:   "emit --code <code> <format> [args...]",
		Short: "Emit one App Check log record",
		Long: `Emit one App Check log record through the configured backend.
The format follows Go fmt verbs; remaining arguments are substituted in order.
Example:
  appcheck-log emit --code I-FAA005001 --log-level debug 'Debug token: %s' abc123`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runEmit(c, args, opts, appcheck.MessageCode(code), level.Level())
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Message code to tag the record with. See 'appcheck-log codes'.")
	cmd.Flags().Var(&level, "level", "Level of the record. Allowed: 'DEBUG', 'INFO', 'WARN', 'ERROR'.")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func runEmit(cmd *cobra.Command, args []string, opts *internal.Options, code appcheck.MessageCode, level slog.Level) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := opts.LoadConfig(cmd.Flags().Changed); err != nil {
		return err
	}

	ctx, shutdown, err := opts.Setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = shutdown(ctx)
	}()

	if !code.Valid() {
		errMsg := fmt.Errorf("message code %q does not have the form I-XXX000000", code)
		opts.Logger.ErrorContext(ctx, errMsg.Error())
		return errMsg
	}
	if _, ok := appcheck.Lookup(code); !ok {
		errMsg := fmt.Errorf("message code %q is not in the App Check catalog", code)
		opts.Logger.ErrorContext(ctx, errMsg.Error())
		return errMsg
	}

	instrumentation, err := util.InstrumentationFromContext(ctx)
	if err != nil {
		return err
	}
	ctx, span := instrumentation.Tracer.Start(ctx, "appcheck-log/emit")
	defer span.End()

	fmtArgs := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		fmtArgs = append(fmtArgs, a)
	}

	logger := appcheck.NewLogger(appcheck.RegisterService(opts.Registry))
	switch {
	case level >= slog.LevelError:
		logger.ErrorContext(ctx, code, args[0], fmtArgs...)
	case level >= slog.LevelWarn:
		logger.WarnContext(ctx, code, args[0], fmtArgs...)
	case level >= slog.LevelInfo:
		logger.InfoContext(ctx, code, args[0], fmtArgs...)
	default:
		logger.DebugContext(ctx, code, args[0], fmtArgs...)
	}
	return nil
}
