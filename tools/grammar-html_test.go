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
	"bytes"
	"strings"
	"testing"
)

func TestRenderGrammarPage(t *testing.T) {
	filename := writePairs(t)

	out := bytes.NewBuffer(make([]byte, 0, 1024*16))
	if err := ReadAndRenderGrammarPage(filename, []string{"grammar.css"}, out); err != nil {
		t.Fatal(err)
	}

	s := out.String()
	for _, want := range []string{
		"<title>pairs</title>",
		`<link href="grammar.css" rel="stylesheet">`,
		// Markdown rendered.
		"<p>Comma-separated key=value pairs.</p>",
		`<span id="Pairs" class="ruleName">Pairs</span>`,
		`p:<a href="#Pair">Pair</a>`,
		`<span class="ruleOutput">object</span>`,
		"parseInt",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in\n%s", want, s)
		}
	}
	// The start rule comes first.
	if strings.Index(s, `id="Pairs"`) > strings.Index(s, `id="Key"`) {
		t.Fatal("start rule isn't first")
	}
}

func TestRenderGrammarProblems(t *testing.T) {
	g, err := ParseGrammar([]byte(`
rules:
  E:
    productions:
      - syntax: "l:E '+' r:N"
`))
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	if err := RenderGrammarHTML(g, out); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.Contains(s, "missing rule N") || !strings.Contains(s, "left-recursive rule E") {
		t.Fatal(s)
	}
}
