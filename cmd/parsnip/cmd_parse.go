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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/tools"

	"github.com/spf13/cobra"
)

// parseResult is what the parse command prints for each input.
type parseResult struct {
	Input   string      `json:"input,omitempty"`
	Matched bool        `json:"matched"`
	Value   interface{} `json:"value,omitempty"`
	Rest    string      `json:"rest"`
}

func newParseCmd(g *globals) *cobra.Command {
	var (
		rule   string
		full   bool
		lines  bool
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "parse <grammar> [input]",
		Short: "Parse input with a grammar",
		Long: `Parse input with a grammar and print the result as JSON.

Without an input argument, the input is read from stdin.  With --lines,
each line of stdin is parsed separately.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gr, err := tools.LoadGrammar(cmd.Context(), args[0], g.interpreters())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			if pretty {
				enc.SetIndent("", "  ")
			}

			parse := func(input string, echo bool) error {
				r, err := parseOne(gr, rule, input, full)
				if err != nil {
					return err
				}
				if echo {
					r.Input = input
				}
				return enc.Encode(r)
			}

			if len(args) == 2 {
				return parse(args[1], false)
			}

			in := cmd.InOrStdin()
			if !lines {
				bs, err := io.ReadAll(in)
				if err != nil {
					return err
				}
				return parse(string(bs), false)
			}

			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				line := scanner.Text()
				if strings.TrimSpace(line) == "" {
					continue
				}
				if err := parse(line, true); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&rule, "rule", "r", "", "rule to run (default is the grammar's start rule)")
	cmd.Flags().BoolVar(&full, "full", false, "require the rule to consume all of the input")
	cmd.Flags().BoolVarP(&lines, "lines", "l", false, "parse each line of stdin")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print output")

	return cmd
}

// parseOne runs the rule, turning any panic into an error.
func parseOne(g *core.Grammar, rule, input string, full bool) (r *parseResult, err error) {
	defer func() {
		if x := recover(); x != nil {
			err = fmt.Errorf("parse failed: %v", x)
		}
	}()

	x, rest, ok, err := g.Parse(rule, input)
	if err != nil {
		return nil, err
	}
	if ok && full && rest != "" {
		ok = false
	}
	r = &parseResult{
		Matched: ok,
		Rest:    rest,
	}
	if ok {
		if r.Value, err = core.Canonicalize(x); err != nil {
			return nil, err
		}
	}
	return r, nil
}
