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

package tools

import (
	"context"
	"fmt"

	"github.com/Comcast/parsnip/core"

	"github.com/jsccast/yaml"
)

// ParseGrammar decodes a grammar from YAML (or JSON, which is YAML).
// The grammar isn't compiled.
func ParseGrammar(bs []byte) (*core.Grammar, error) {
	var g core.Grammar
	if err := yaml.Unmarshal(bs, &g); err != nil {
		return nil, fmt.Errorf("bad grammar: %w", err)
	}
	return &g, nil
}

// LoadGrammar reads (with inlines), decodes, and compiles a grammar.
func LoadGrammar(ctx context.Context, filename string, interpreters core.InterpretersMap) (*core.Grammar, error) {
	bs, err := ReadFileWithInlines(filename)
	if err != nil {
		return nil, err
	}
	g, err := ParseGrammar(bs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err = g.Compile(ctx, interpreters, true); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return g, nil
}

// GrammarYAML renders the grammar as YAML.
func GrammarYAML(g *core.Grammar) ([]byte, error) {
	return yaml.Marshal(g)
}
