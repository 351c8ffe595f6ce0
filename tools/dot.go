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
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/util"

	"gopkg.in/yaml.v2"
)

// Dot makes a Graphviz dot file for the given grammar.  A really ugly
// dot file.
//
// Each rule is a node, and each rule reference in a production is an
// edge labeled with the production.  Left-recursive rules are
// red.  The optional highlight names a rule to draw in bold.
func Dot(g *core.Grammar, w io.WriteCloser, highlight string) error {

	a, err := Analyze(g)
	if err != nil {
		return err
	}
	left := make(map[string]bool, len(a.LeftRecursive))
	for _, name := range a.LeftRecursive {
		left[name] = true
	}

	util.Logf("processing %d rules", len(g.Rules))

	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "12"]
`)

	seen := make(map[string]bool)
	node := func(name string, r *core.Rule) {
		if seen[name] {
			return
		}
		seen[name] = true

		label := htmlEscape(name)
		if r != nil && r.Output != "" {
			label += `<BR/><FONT POINT-SIZE="8">` + htmlEscape(r.Output) + `</FONT>`
		}
		if r != nil && r.Doc != "" {
			doc := r.Doc
			if 40 < len(doc) {
				period := strings.Index(doc, ". ")
				if 0 < period {
					doc = doc[0 : period+1]
				}
			}
			label += `<BR/><FONT POINT-SIZE="8">` + htmlEscape(doc) + `</FONT>`
		}

		var (
			color     = "black"
			fillcolor = "#99ddc8"
			shape     = "record"
			style     = "filled"
		)
		switch {
		case r == nil:
			fillcolor = "#f98b8b"
			style += ",dashed"
		case actionful(r):
			shape = "note"
			fillcolor = "#52aa5e"
		}
		if left[name] {
			color = "red"
		}
		if name == g.Start {
			style += ",bold"
		}
		if name == highlight {
			style += ",bold"
			color = "blue"
		}
		fmt.Fprintf(w, "  %s [shape=\"%s\", style=\"%s\", color=\"%s\", fillcolor=\"%s\", label=<%s> ]\n",
			dotID(name), shape, style, color, fillcolor, label)
	}

	process := func(name string, r *core.Rule) {
		node(name, r)
		if r == nil {
			return
		}
		util.Logf("  processing %s productions: %d", name, len(r.Productions))
		for i, p := range r.Productions {
			es, err := elements(p)
			if err != nil {
				util.Logf("rule %s production %d: %v", name, i, err)
				continue
			}
			label := fmt.Sprintf("%d/%d %s", i+1, len(r.Productions), htmlEscape(p.String()))
			if p.ActionSource != nil {
				label += `<FONT POINT-SIZE="6"><BR/>` + sourceLabel(p.ActionSource.Source) + `</FONT>`
			}
			for _, e := range es {
				if e == nil || e.Rule == "" {
					continue
				}
				node(e.Rule, g.Rules[e.Rule])
				color := "black"
				if left[name] && left[e.Rule] {
					color = "red"
				}
				fmt.Fprintf(w, "  %s -> %s [ color=\"%s\" label = <%s> ]\n",
					dotID(name), dotID(e.Rule), color, label)
			}
		}
	}

	if r, have := g.Rules[g.Start]; have {
		process(g.Start, r)
	}

	for _, name := range g.RuleNames() {
		if name == g.Start {
			continue
		}
		process(name, g.Rules[name])
	}

	fmt.Fprintf(w, "}\n")
	return w.Close()
}

func actionful(r *core.Rule) bool {
	for _, p := range r.Productions {
		if p != nil && (p.Action != nil || p.ActionSource != nil) {
			return true
		}
	}
	return false
}

// sourceLabel renders action source for a label.  Structured source
// (code with requires) is rendered as YAML.
func sourceLabel(x interface{}) string {
	var src string
	if s, is := x.(string); is {
		src = s
	} else if bs, err := yaml.Marshal(x); err == nil {
		src = string(bs)
	} else {
		src = fmt.Sprintf("%#v", x)
	}
	src = htmlEscape(src)
	return strings.Replace(strings.TrimSpace(src)+"\n", "\n", `<BR ALIGN="LEFT"/>`, -1)
}

// PNG generates a PNG image based on output from Dot.
//
// This function with write two files: basename.dot and basename.png,
// where the basename is the given string.
func PNG(g *core.Grammar, basename string, highlight string) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(g, dotfile, highlight); err != nil {
		return pngname, err
	}
	if err := exec.Command("dot", "-Tpng", "-Gstart=1", "-o", pngname, dotname).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}

// dotID quotes a rule name for use as a dot node ID.
func dotID(name string) string {
	return `"` + strings.Replace(name, `"`, `\"`, -1) + `"`
}
