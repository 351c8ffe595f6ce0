/* Copyright 2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"encoding/json"
	"fmt"

	"github.com/Comcast/parsnip/tools"
	"github.com/Comcast/parsnip/util"

	"github.com/spf13/cobra"
)

func newExpectCmd(g *globals) *cobra.Command {
	var (
		verbose bool
		report  bool
	)

	cmd := &cobra.Command{
		Use:   "expect <session>...",
		Short: "Run expectation sessions",
		Long: `Run expectation sessions.

A session is a YAML file that names a grammar and lists cases: inputs
with expected values, leftovers, or failures.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, filename := range args {
				s, err := tools.LoadSession(filename)
				if err != nil {
					return err
				}
				s.Interpreters = g.interpreters()
				s.Verbose = verbose

				gr, err := s.LoadGrammar(cmd.Context())
				if err != nil {
					return err
				}
				r, err := s.Run(cmd.Context(), gr)
				if err != nil {
					return fmt.Errorf("%s: %w", filename, err)
				}

				if report {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err = enc.Encode(r); err != nil {
						return err
					}
				}
				for _, result := range r.Results {
					if result.Problem != "" {
						fmt.Fprintf(out, "%s case %d (%q): %s\n", filename, result.Case, result.Input, result.Problem)
					}
				}
				util.Logf("%s: %d passed, %d failed", filename, r.Passed, r.Failed)
				failed += r.Failed
			}
			if 0 < failed {
				return fmt.Errorf("%d cases failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose-cases", false, "log each case")
	cmd.Flags().BoolVar(&report, "report", false, "print each session's report as JSON")

	return cmd
}
