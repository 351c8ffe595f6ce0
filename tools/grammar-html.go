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
	"encoding/json"
	"fmt"
	"html"
	"io"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/interpreters/noop"

	md "github.com/russross/blackfriday/v2"
)

// RenderGrammarHTML writes an HTML fragment that documents the
// grammar's rules.  Doc strings are Markdown.
func RenderGrammarHTML(g *core.Grammar, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<div class="grammarDoc doc">%s</div>`, md.Run([]byte(g.Doc)))

	a, err := Analyze(g)
	if err != nil {
		return err
	}
	if problems := a.Problems(); 0 < len(problems) {
		f(`<div class="problems"><ul>`)
		for _, p := range problems {
			f(`<li>%s</li>`, html.EscapeString(p))
		}
		f(`</ul></div>`)
	}

	f(`<div class="rules"><table>`)
	fn := func(name string, r *core.Rule) {
		id := html.EscapeString(name)
		f(`<tr class="rule"><td><span id="%s" class="ruleName">%s</span></td><td>`, id, id)
		if r.Output != "" {
			f(`<div>output: <span class="ruleOutput">%s</span></div>`, html.EscapeString(r.Output))
		}
		if r.Doc != "" {
			f(`<div class="ruleDoc doc">%s</div>`, md.Run([]byte(r.Doc)))
		}
		f(`<div class="productions">`)
		f(`<table>`)
		for i, p := range r.Productions {
			if p == nil {
				continue
			}
			f(`<tr><td><div class="productionNum">%d</div></td><td>`, i)
			f(`<table>`)
			if p.Doc != "" {
				f(`<tr><td></td><td>doc</td>`)
				f(`<td><div class="productionDoc doc">%s</div></td></tr>`, md.Run([]byte(p.Doc)))
			}
			f(`<tr><td></td><td>elements</td><td>`)
			es, err := elements(p)
			if err != nil {
				f(`<span class="error">%s</span>`, html.EscapeString(err.Error()))
			}
			for _, e := range es {
				if e == nil {
					continue
				}
				if e.Rule != "" {
					bind := ""
					if !core.IsWildcard(e.Bind) {
						bind = html.EscapeString(e.Bind) + ":"
					}
					f(`<code>%s<a href="#%s">%s</a></code>`, bind, html.EscapeString(e.Rule), html.EscapeString(e.Rule))
				} else {
					f(`<code>%s</code>`, html.EscapeString(e.String()))
				}
			}
			f(`</td></tr>`)
			if p.ActionSource != nil {
				f(`<tr><td></td><td>action</td>`)
				f(`<td><div class="code"><pre>%s</pre></div></td></tr>`, sourceLabel(p.ActionSource.Source))
			}
			f(`</table>`)
			f(`</td></tr>`)
		}
		f(`</table>`)
		f(`</div>`)
		f(`</td></tr>`)
	}
	if r, has := g.Rules[g.Start]; has && r != nil {
		fn(g.Start, r)
	}
	for _, name := range g.RuleNames() {
		if name == g.Start || g.Rules[name] == nil {
			continue
		}
		fn(name, g.Rules[name])
	}
	f(`</table></div>`)

	return nil
}

// RenderGrammarPage writes a complete HTML page for the grammar.
func RenderGrammarPage(g *core.Grammar, out io.Writer, cssFiles []string) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/grammar-html.css"}
	}

	js, err := json.Marshal(g)
	if err != nil {
		return err
	}

	title := html.EscapeString(g.Name)

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
  <script>
  var thisGrammar = %s;
  </script>
`, title, js)

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, title)

	if err = RenderGrammarHTML(g, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderGrammarPage loads a grammar and renders its page.
// Actions are compiled with a silent noop interpreter, so their
// interpreters needn't be available.
func ReadAndRenderGrammarPage(filename string, cssFiles []string, out io.Writer) error {
	bs, err := ReadFileWithInlines(filename)
	if err != nil {
		return err
	}
	g, err := ParseGrammar(bs)
	if err != nil {
		return err
	}

	silent := noop.NewInterpreter()
	silent.Silent = true
	interpreters := core.NewInterpretersMap()
	for _, p := range allProductions(g) {
		if p.ActionSource != nil {
			interpreters[p.ActionSource.Interpreter] = silent
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = g.Compile(ctx, interpreters, true); err != nil {
		return err
	}

	return RenderGrammarPage(g, out, cssFiles)
}

func allProductions(g *core.Grammar) []*core.Production {
	var acc []*core.Production
	for _, name := range g.RuleNames() {
		if r := g.Rules[name]; r != nil {
			for _, p := range r.Productions {
				if p != nil {
					acc = append(acc, p)
				}
			}
		}
	}
	return acc
}
