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

package codes

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/firebase/appcheck-log/cmd/internal"
	"github.com/firebase/appcheck-log/internal/appcheck"
	"github.com/spf13/cobra"
)

func NewCommand(opts *internal.Options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List the App Check message codes",
		Long: `List every message code App Check tags its log records with,
together with the situation it is emitted in.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runCodes(opts, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as a JSON array.")
	return cmd
}

func runCodes(opts *internal.Options, asJSON bool) error {
	catalog := appcheck.Codes()
	if asJSON {
		out, err := json.MarshalIndent(catalog, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %w", err)
		}
		fmt.Fprintln(opts.IOStreams.Out, string(out))
		return nil
	}

	w := tabwriter.NewWriter(opts.IOStreams.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tSITUATION")
	for _, info := range catalog {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Code, info.Name, info.Situation)
	}
	return w.Flush()
}
