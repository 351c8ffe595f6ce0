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

// Package main is a command-line tool for parsnip grammars.
package main

import (
	"os"
	"time"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/interpreters"
	"github.com/Comcast/parsnip/interpreters/goja"
	"github.com/Comcast/parsnip/util"

	"github.com/spf13/cobra"
)

type globals struct {
	verbosity int
	logFile   string
	timeout   time.Duration
}

// interpreters returns the standard interpreters with the configured
// action timeout.
func (g *globals) interpreters() core.InterpretersMap {
	is := interpreters.Standard()
	if js, ok := is["goja"].(*goja.Interpreter); ok {
		js.Timeout = g.timeout
	}
	return is
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "parsnip",
		Short: "Tools for parsnip grammars",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.ConfigureLogging(g.verbosity, g.logFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&g.verbosity, "verbose", "v", "log verbosity (repeatable)")
	flags.StringVar(&g.logFile, "log", "", "log file (default stderr)")
	flags.DurationVar(&g.timeout, "timeout", time.Second, "limit for a single action's execution")

	rootCmd.AddCommand(newParseCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newDotCmd())
	rootCmd.AddCommand(newMermaidCmd())
	rootCmd.AddCommand(newHTMLCmd())
	rootCmd.AddCommand(newExpectCmd(g))
	rootCmd.AddCommand(newInlineCmd())
	rootCmd.AddCommand(newYAMLToJSONCmd())
	rootCmd.AddCommand(newJSONToYAMLCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
