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
	"io"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/tools"

	"github.com/jsccast/yaml"
	"github.com/spf13/cobra"
)

func newInlineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "inline <file>",
		Short:        `Expand %inline("filename") directives`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := tools.ReadFileWithInlines(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(bs)
			return err
		},
	}

	return cmd
}

func newYAMLToJSONCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:          "yamltojson",
		Short:        "Convert a YAML grammar on stdin to JSON",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := tools.ReadAllWithInlines(cmd.InOrStdin(), ".")
			if err != nil {
				return err
			}

			g, err := tools.ParseGrammar(bs)
			if err != nil {
				return err
			}

			if pretty {
				bs, err = json.MarshalIndent(g, "", "  ")
			} else {
				bs, err = json.Marshal(g)
			}
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(append(bs, '\n'))
			return err
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print")

	return cmd
}

func newJSONToYAMLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "jsontoyaml",
		Short:        "Convert a JSON grammar on stdin to YAML",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}

			var g core.Grammar
			if err = json.Unmarshal(bs, &g); err != nil {
				return err
			}

			if bs, err = yaml.Marshal(&g); err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(bs)
			return err
		},
	}

	return cmd
}
