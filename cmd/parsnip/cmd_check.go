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

	"github.com/spf13/cobra"
)

func newCheckCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check <grammar>...",
		Short:        "Compile grammars and report problems",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			bad := 0
			for _, filename := range args {
				gr, err := tools.LoadGrammar(cmd.Context(), filename, g.interpreters())
				if err != nil {
					fmt.Fprintf(out, "%v\n", err)
					bad++
					continue
				}
				a, err := tools.Analyze(gr)
				if err != nil {
					return err
				}
				problems := a.Problems()
				for _, p := range problems {
					fmt.Fprintf(out, "%s: %s\n", filename, p)
				}
				if 0 < len(problems) {
					bad++
				}
			}
			if 0 < bad {
				return fmt.Errorf("%d of %d grammars have problems", bad, len(args))
			}
			return nil
		},
	}

	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "analyze <grammar>",
		Short:        "Print an analysis of a grammar as JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := tools.ReadFileWithInlines(args[0])
			if err != nil {
				return err
			}
			gr, err := tools.ParseGrammar(bs)
			if err != nil {
				return err
			}
			a, err := tools.Analyze(gr)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a)
		},
	}

	return cmd
}
