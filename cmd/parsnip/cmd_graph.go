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
	"fmt"
	"io"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/tools"

	"github.com/spf13/cobra"
)

type nopCloser struct {
	io.Writer
}

func (c nopCloser) Close() error {
	return nil
}

// readGrammar reads (with inlines) and decodes a grammar without
// compiling it.
func readGrammar(filename string) (*core.Grammar, error) {
	bs, err := tools.ReadFileWithInlines(filename)
	if err != nil {
		return nil, err
	}
	g, err := tools.ParseGrammar(bs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return g, nil
}

func newDotCmd() *cobra.Command {
	var (
		highlight string
		png       string
	)

	cmd := &cobra.Command{
		Use:          "dot <grammar>",
		Short:        "Render a grammar's rule graph in Graphviz dot",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gr, err := readGrammar(args[0])
			if err != nil {
				return err
			}
			if png != "" {
				filename, err := tools.PNG(gr, png, highlight)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", filename)
				return nil
			}
			return tools.Dot(gr, nopCloser{cmd.OutOrStdout()}, highlight)
		},
	}

	cmd.Flags().StringVar(&highlight, "highlight", "", "rule to highlight")
	cmd.Flags().StringVar(&png, "png", "", "write BASENAME.dot and BASENAME.png (requires Graphviz)")

	return cmd
}

func newMermaidCmd() *cobra.Command {
	opts := &tools.MermaidOpts{}

	cmd := &cobra.Command{
		Use:          "mermaid <grammar>",
		Short:        "Render a grammar's rule graph in Mermaid",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gr, err := readGrammar(args[0])
			if err != nil {
				return err
			}
			return tools.Mermaid(gr, nopCloser{cmd.OutOrStdout()}, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowProductions, "productions", true, "label edges with productions")
	cmd.Flags().StringVar(&opts.ActionFill, "action-fill", "#bcf2db", "fill color for rules with actions")
	cmd.Flags().StringVar(&opts.ActionClass, "action-class", "", "CSS class for rules with actions")

	return cmd
}

func newHTMLCmd() *cobra.Command {
	var css []string

	cmd := &cobra.Command{
		Use:          "html <grammar>",
		Short:        "Render a grammar's documentation as an HTML page",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tools.ReadAndRenderGrammarPage(args[0], css, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVar(&css, "css", nil, "CSS files to link")

	return cmd
}
