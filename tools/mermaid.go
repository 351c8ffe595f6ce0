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
	"strings"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/util"
)

type MermaidOpts struct {
	// ShowProductions will result in an edge label that's the
	// notation of the production that makes the reference.
	ShowProductions bool `json:"showProductions"`

	// ActionFill is the fill color of for rules with actions.
	// Does not apply if ActionClass is set.
	ActionFill string `json:"actionFill,omitempty"`

	// ActionClass will be the CSS class for rules with actions.
	ActionClass string `json:"actionClass,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) input file
// for the given grammar.
func Mermaid(g *core.Grammar, w io.WriteCloser, opts *MermaidOpts) error {

	if opts == nil {
		opts = &MermaidOpts{
			ShowProductions: true,
			ActionFill:      "#bcf2db",
		}
	}

	util.Logf("processing %d rules", len(g.Rules))

	fmt.Fprintf(w, "graph TB\n")

	nids := make(map[string]string)
	num := 0

	node := func(name string, r *core.Rule) string {
		if nid, already := nids[name]; already {
			return nid
		}
		num++
		nid := fmt.Sprintf("n%d", num)
		nids[name] = nid

		switch {
		case r == nil:
			fmt.Fprintf(w, "  %s{{\"%s\"}}\n", nid, mermaidEscape(name))
		case !actionful(r):
			fmt.Fprintf(w, "  %s(\"%s\")\n", nid, mermaidEscape(name))
		default:
			fmt.Fprintf(w, "  %s[\"%s\"]\n", nid, mermaidEscape(name))
			if opts.ActionClass != "" {
				fmt.Fprintf(w, "  class %s %s\n", nid, opts.ActionClass)
			} else if opts.ActionFill != "" {
				fmt.Fprintf(w, "  style %s fill:%s\n", nid, opts.ActionFill)
			}
		}

		return nid
	}

	process := func(name string, r *core.Rule) {
		nid := node(name, r)
		if r == nil {
			return
		}
		for i, p := range r.Productions {
			es, err := elements(p)
			if err != nil {
				util.Logf("rule %s production %d: %v", name, i, err)
				continue
			}
			for _, e := range es {
				if e == nil || e.Rule == "" {
					continue
				}
				to := node(e.Rule, g.Rules[e.Rule])
				label := ""
				if opts.ShowProductions {
					label = fmt.Sprintf(`-- "%d: %s"`, i+1, mermaidEscape(p.String()))
				}
				fmt.Fprintf(w, "  %s %s --> %s\n", nid, label, to)
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

	fmt.Fprintf(w, "\n")
	util.Logf("mermaid gen done")

	return w.Close()
}

var mermaidEscaper = strings.NewReplacer(`"`, "#quot;", "<", "#lt;", ">", "#gt;")

func mermaidEscape(s string) string {
	return mermaidEscaper.Replace(s)
}
