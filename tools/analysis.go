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
	"sort"

	"github.com/Comcast/parsnip/core"
)

// GrammarAnalysis is a summary of a grammar's structure and of
// problems that compilation doesn't catch.
type GrammarAnalysis struct {
	grammar *core.Grammar

	Errors      []string
	RuleCount   int
	Productions int
	Actions     int
	Patterns    int
	Chars       int

	// EmptyRules have no productions, so they never match.
	EmptyRules []string

	// Orphans are rules that no production refers to (other than
	// the start rule).
	Orphans []string

	// MissingRules are referenced but not defined.
	MissingRules []string

	// Nullable rules can match without consuming anything.
	Nullable []string

	// LeftRecursive rules can reach themselves without consuming
	// anything.  Parsing one recurses forever.
	LeftRecursive []string

	// BadPatterns don't compile.  Using one panics.
	BadPatterns []string

	Interpreters []string
}

// elements returns a production's elements, parsing its Syntax if
// it hasn't been compiled.  The production isn't modified.
func elements(p *core.Production) ([]*core.Element, error) {
	if p == nil {
		return nil, nil
	}
	if len(p.Elements) == 0 && p.Syntax != "" {
		return core.ParseNotation(p.Syntax)
	}
	return p.Elements, nil
}

// Analyze looks at a grammar without compiling it.
func Analyze(g *core.Grammar) (*GrammarAnalysis, error) {

	a := GrammarAnalysis{
		grammar:   g,
		RuleCount: len(g.Rules),
		Errors:    make([]string, 0, 8),
	}

	var (
		referenced   = make(map[string]bool)
		missing      = make(map[string]bool)
		interpreters = make(map[string]bool)
		badPatterns  = make(map[string]bool)
		empty        = make(map[string]bool)

		// Elements of every production of every rule.
		prods = make(map[string][][]*core.Element, len(g.Rules))
	)

	if g.Start != "" {
		if _, have := g.Rules[g.Start]; !have {
			missing[g.Start] = true
		}
	}

	for _, name := range g.RuleNames() {
		r := g.Rules[name]
		if r == nil || len(r.Productions) == 0 {
			empty[name] = true
			continue
		}
		for i, p := range r.Productions {
			if p == nil {
				continue
			}
			a.Productions++
			if p.Action != nil || p.ActionSource != nil {
				a.Actions++
				if p.ActionSource != nil {
					interpreters[p.ActionSource.Interpreter] = true
				}
			}
			es, err := elements(p)
			if err != nil {
				a.Errors = append(a.Errors, fmt.Sprintf("rule %s production %d: %v", name, i, err))
				continue
			}
			prods[name] = append(prods[name], es)
			for _, e := range es {
				if e == nil {
					continue
				}
				switch {
				case e.Rule != "":
					if e.Rule != name {
						referenced[e.Rule] = true
					}
					if _, have := g.Rules[e.Rule]; !have {
						missing[e.Rule] = true
					}
				case e.Char != "":
					a.Chars++
				case e.Pattern != "":
					a.Patterns++
					if _, err := patternOf(g, e).Compile(); err != nil {
						badPatterns[e.Pattern] = true
					}
				}
			}
		}
	}

	orphans := make(map[string]bool)
	for name := range g.Rules {
		if !referenced[name] && name != g.Start {
			orphans[name] = true
		}
	}

	nullable := nullables(g, prods)

	left := make(map[string]bool)
	firsts := make(map[string][]string, len(prods))
	for name, ps := range prods {
		firsts[name] = firstRules(g, ps, nullable)
	}
	for name := range prods {
		if reaches(firsts, name) {
			left[name] = true
		}
	}

	a.EmptyRules = keysToStringSlice(empty)
	a.Orphans = keysToStringSlice(orphans)
	a.MissingRules = keysToStringSlice(missing)
	a.Nullable = keysToStringSlice(nullable)
	a.LeftRecursive = keysToStringSlice(left)
	a.BadPatterns = keysToStringSlice(badPatterns)
	a.Interpreters = keysToStringSlice(interpreters, "go")

	return &a, nil
}

// Problems returns the findings that make the grammar unusable or
// partly unusable.
func (a *GrammarAnalysis) Problems() []string {
	acc := append([]string{}, a.Errors...)
	for _, name := range a.MissingRules {
		acc = append(acc, "missing rule "+name)
	}
	for _, name := range a.LeftRecursive {
		acc = append(acc, "left-recursive rule "+name)
	}
	for _, pat := range a.BadPatterns {
		acc = append(acc, "bad pattern "+pat)
	}
	return acc
}

func patternOf(g *core.Grammar, e *core.Element) *core.Pat {
	syntax := e.PatternSyntax
	if syntax == "" {
		syntax = g.PatternSyntax
	}
	return core.PatternWith(syntax, e.Pattern, g.AnchorPatterns)
}

// nullableElement reports whether the element can match the empty
// string.  A pattern is nullable if it matches "".  A Go Parser is
// assumed to consume something.
func nullableElement(g *core.Grammar, e *core.Element, nullable map[string]bool) bool {
	switch {
	case e == nil:
		return false
	case e.Rule != "":
		return nullable[e.Rule]
	case e.Pattern != "":
		f, err := patternOf(g, e).Compile()
		if err != nil {
			return false
		}
		_, _, found := f.FindIndex("")
		return found
	default:
		return false
	}
}

// nullables finds the rules that can succeed without consuming
// anything.
func nullables(g *core.Grammar, prods map[string][][]*core.Element) map[string]bool {
	nullable := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for name, ps := range prods {
			if nullable[name] {
				continue
			}
			for _, es := range ps {
				all := true
				for _, e := range es {
					if !nullableElement(g, e, nullable) {
						all = false
						break
					}
				}
				if all {
					nullable[name] = true
					changed = true
					break
				}
			}
		}
	}
	return nullable
}

// firstRules returns the rules that a rule can call before consuming
// anything.
func firstRules(g *core.Grammar, ps [][]*core.Element, nullable map[string]bool) []string {
	var acc []string
	for _, es := range ps {
		for _, e := range es {
			if e == nil {
				break
			}
			if e.Rule != "" {
				acc = append(acc, e.Rule)
			}
			if !nullableElement(g, e, nullable) {
				break
			}
		}
	}
	return acc
}

// reaches reports whether the named rule can reach itself through
// firsts.
func reaches(firsts map[string][]string, name string) bool {
	seen := make(map[string]bool)
	todo := append([]string{}, firsts[name]...)
	for 0 < len(todo) {
		next := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if next == name {
			return true
		}
		if seen[next] {
			continue
		}
		seen[next] = true
		todo = append(todo, firsts[next]...)
	}
	return false
}

// keysToStringSlice returns the sorted keys that map to true.  If
// there aren't any and a default is given, that default is the only
// element.
func keysToStringSlice(m map[string]bool, defaultValue ...string) []string {
	var list []string
	for key, v := range m {
		if v {
			list = append(list, key)
		}
	}
	sort.Strings(list)

	if len(list) == 0 && len(defaultValue) > 0 {
		return []string{defaultValue[0]}
	}

	return list
}
