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

package core

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// Grammar is a set of named Rules that can be compiled into Parsers.
//
// A Grammar is declared (in Go, YAML, or JSON) and then Compiled
// once.  After compilation, a Grammar should not be modified, and its
// Parsers can be used concurrently.
type Grammar struct {
	// Name is the generic name for this grammar.  Something like
	// "arithmetic".
	Name string `json:"name,omitempty" yaml:",omitempty"`

	// Version is the version of this grammar.
	Version string `json:"version,omitempty" yaml:",omitempty"`

	// Doc is general documentation about this grammar.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Start is the optional name of the rule to use when a rule
	// isn't specified.
	Start string `json:"start,omitempty" yaml:",omitempty"`

	// PatternSyntax is the default syntax for pattern elements.
	// See PatternCompilers.
	PatternSyntax string `json:"patternSyntax,omitempty" yaml:"patternSyntax,omitempty"`

	// AnchorPatterns (when true) requires pattern elements to
	// match at the start of the remaining input.  Otherwise text
	// before the first match is consumed along with the match.
	AnchorPatterns bool `json:"anchorPatterns,omitempty" yaml:"anchorPatterns,omitempty"`

	// ActionErrorsAbort (when true) makes an action error panic
	// with an *ActionFailed.  Otherwise an action error just makes
	// its production fail.
	ActionErrorsAbort bool `json:"actionErrorsAbort,omitempty" yaml:"actionErrorsAbort,omitempty"`

	// Rules is the structure of the grammar.
	Rules map[string]*Rule `json:"rules,omitempty" yaml:",omitempty"`

	compiled bool
	parsers  map[string]*Nonterminal
}

// Rule is a named nonterminal with an ordered list of Productions.
type Rule struct {
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Output is the name of the type of the rule's values.  Just
	// documentation.
	Output string `json:"output,omitempty" yaml:",omitempty"`

	// Productions are tried in order.  The first one that
	// succeeds determines the rule's value.
	Productions []*Production `json:"productions,omitempty" yaml:",omitempty"`
}

// Production is one alternative of a Rule: a sequence of Elements and
// an Action that computes a value from their bindings.
type Production struct {
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Syntax, if given, is compiled into Elements.  See
	// ParseNotation.
	Syntax string `json:"syntax,omitempty" yaml:",omitempty"`

	Elements []*Element `json:"elements,omitempty" yaml:",omitempty"`

	// Action computes the production's value.  If nil (and
	// there's no ActionSource), the value is the value of the
	// only named binding, or all the Bindings if there isn't
	// exactly one.
	Action Action `json:"-" yaml:"-"`

	// ActionSource, if given, can be compiled to an Action.
	ActionSource *ActionSource `json:"action,omitempty" yaml:"action,omitempty"`
}

// Element is one step of a Production: a binding name and exactly
// one of a rule reference, a literal character, a pattern, or a
// Parser.
type Element struct {
	// Bind is the binding name for the element's value.  Empty
	// or "_" discards the value.
	Bind string `json:"bind,omitempty" yaml:",omitempty"`

	Rule    string `json:"rule,omitempty" yaml:",omitempty"`
	Char    string `json:"char,omitempty" yaml:",omitempty"`
	Pattern string `json:"pattern,omitempty" yaml:",omitempty"`

	// PatternSyntax overrides the Grammar's PatternSyntax for
	// this element.
	PatternSyntax string `json:"patternSyntax,omitempty" yaml:"patternSyntax,omitempty"`

	// Parser is an arbitrary Parser supplied by Go code.
	Parser Parser[any] `json:"-" yaml:"-"`
}

var charEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// String renders the element in the notation that ParseNotation
// reads.
func (e *Element) String() string {
	var acc string
	if !IsWildcard(e.Bind) {
		acc = e.Bind + ":"
	}
	switch {
	case e.Rule != "":
		acc += e.Rule
	case e.Char != "":
		acc += "'" + charEscaper.Replace(e.Char) + "'"
	case e.Pattern != "":
		acc += "/" + strings.Replace(e.Pattern, "/", `\/`, -1) + "/"
	case e.Parser != nil:
		acc += "<parser>"
	default:
		acc += "<nothing>"
	}
	return acc
}

// String renders the production's elements in notation.
func (p *Production) String() string {
	if len(p.Elements) == 0 {
		return p.Syntax
	}
	acc := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		acc[i] = e.String()
	}
	return strings.Join(acc, " ")
}

// Copy makes a deep copy of the Grammar.  The copy is not compiled.
func (g *Grammar) Copy(version string) *Grammar {
	if version == "" {
		version = g.Version
	}
	rs := make(map[string]*Rule, len(g.Rules))
	for name, r := range g.Rules {
		rs[name] = r.Copy()
	}
	return &Grammar{
		Name:              g.Name,
		Version:           version,
		Doc:               g.Doc,
		Start:             g.Start,
		PatternSyntax:     g.PatternSyntax,
		AnchorPatterns:    g.AnchorPatterns,
		ActionErrorsAbort: g.ActionErrorsAbort,
		Rules:             rs,
	}
}

// Copy makes a deep copy of the Rule.
func (r *Rule) Copy() *Rule {
	if r == nil {
		return nil
	}
	ps := make([]*Production, len(r.Productions))
	for i, p := range r.Productions {
		ps[i] = p.Copy()
	}
	return &Rule{
		Doc:         r.Doc,
		Output:      r.Output,
		Productions: ps,
	}
}

// Copy doesn't copy the Action or any element Parsers.
func (p *Production) Copy() *Production {
	if p == nil {
		return nil
	}
	var es []*Element
	if p.Elements != nil {
		es = make([]*Element, len(p.Elements))
		for i, e := range p.Elements {
			if e != nil {
				c := *e
				es[i] = &c
			}
		}
	}
	return &Production{
		Doc:          p.Doc,
		Syntax:       p.Syntax,
		Elements:     es,
		Action:       p.Action,
		ActionSource: p.ActionSource.Copy(),
	}
}

// RuleNames returns the sorted names of the rules.
func (g *Grammar) RuleNames() []string {
	acc := make([]string, 0, len(g.Rules))
	for name := range g.Rules {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc
}

// Compiled reports whether Compile has succeeded.
func (g *Grammar) Compiled() bool {
	return g.compiled
}

// Compile builds a Parser for every rule.  Any production Syntax is
// parsed into Elements, and any ActionSources are compiled using the
// given interpreters.
//
// Patterns are not compiled here.  A bad pattern is only discovered
// when its Parser is first used.
func (g *Grammar) Compile(ctx context.Context, interpreters InterpretersMap, force bool) error {

	if g.Rules == nil {
		g.Rules = make(map[string]*Rule)
	}

	if g.Start != "" {
		if _, have := g.Rules[g.Start]; !have {
			return &UnknownRule{Grammar: g, RuleName: g.Start}
		}
	}

	// Make all the nonterminals first so that rules can refer to
	// each other (and themselves).
	parsers := make(map[string]*Nonterminal, len(g.Rules))
	for name, r := range g.Rules {
		if r == nil {
			r = &Rule{}
			g.Rules[name] = r
		}
		parsers[name] = &Nonterminal{
			Name:  name,
			abort: g.ActionErrorsAbort,
		}
	}

	for name, r := range g.Rules {
		alts := make([]*alternative, 0, len(r.Productions))
		for i, p := range r.Productions {
			alt, err := g.compileProduction(ctx, interpreters, force, parsers, name, i, p)
			if err != nil {
				return err
			}
			alts = append(alts, alt)
		}
		parsers[name].alts = alts
	}

	g.parsers = parsers
	g.compiled = true

	return nil
}

func (g *Grammar) compileProduction(ctx context.Context, interpreters InterpretersMap, force bool, parsers map[string]*Nonterminal, rule string, i int, p *Production) (*alternative, error) {
	if p == nil {
		return nil, &BadProduction{rule, i, "missing production"}
	}

	if len(p.Elements) == 0 && strings.TrimSpace(p.Syntax) != "" {
		es, err := ParseNotation(p.Syntax)
		if err != nil {
			return nil, &BadProduction{rule, i, err.Error()}
		}
		p.Elements = es
	}

	var (
		tuple = make(Tup, len(p.Elements))
		binds = make([]string, len(p.Elements))
		names = make([]string, 0, len(p.Elements))
		seen  = make(map[string]bool, len(p.Elements))
	)

	for j, e := range p.Elements {
		sub, err := g.element(parsers, rule, i, j, e)
		if err != nil {
			return nil, err
		}
		tuple[j] = sub
		binds[j] = e.Bind
		if IsWildcard(e.Bind) {
			continue
		}
		if seen[e.Bind] {
			return nil, &BadProduction{rule, i, `binding "` + e.Bind + `" appears more than once`}
		}
		seen[e.Bind] = true
		names = append(names, e.Bind)
	}

	if p.ActionSource != nil && (force || p.Action == nil) {
		action, err := p.ActionSource.Compile(ctx, interpreters)
		if err != nil {
			return nil, &UncompiledAction{rule, i, err}
		}
		p.Action = action
	}

	action := p.Action
	if action == nil {
		action = &defaultAction{names}
	}

	return &alternative{
		index:  i,
		tuple:  tuple,
		binds:  binds,
		action: action,
	}, nil
}

// element resolves an Element to a Parser.
func (g *Grammar) element(parsers map[string]*Nonterminal, rule string, i, j int, e *Element) (Parser[any], error) {
	if e == nil {
		return nil, &BadElement{rule, i, j, "missing element"}
	}

	n := 0
	for _, given := range []bool{e.Rule != "", e.Char != "", e.Pattern != "", e.Parser != nil} {
		if given {
			n++
		}
	}
	if n != 1 {
		return nil, &BadElement{rule, i, j, "need exactly one of rule, char, pattern, or parser"}
	}

	switch {
	case e.Parser != nil:
		return e.Parser, nil
	case e.Rule != "":
		p, have := parsers[e.Rule]
		if !have {
			return nil, &UnknownRule{Grammar: g, RuleName: e.Rule, Referrer: rule}
		}
		return p, nil
	case e.Char != "":
		c, size := utf8.DecodeRuneInString(e.Char)
		if size != len(e.Char) || c == utf8.RuneError {
			return nil, &BadElement{rule, i, j, "char must be exactly one character"}
		}
		return Erase[rune](Char(c)), nil
	default:
		syntax := e.PatternSyntax
		if syntax == "" {
			syntax = g.PatternSyntax
		}
		return Erase[string](PatternWith(syntax, e.Pattern, g.AnchorPatterns)), nil
	}
}

// Parser returns the compiled Parser for the named rule.  The empty
// name means the Grammar's Start rule.
func (g *Grammar) Parser(name string) (Parser[any], error) {
	if !g.compiled {
		return nil, &GrammarNotCompiled{g}
	}
	if name == "" {
		name = g.Start
	}
	p, have := g.parsers[name]
	if !have {
		return nil, &UnknownRule{Grammar: g, RuleName: name}
	}
	return p, nil
}

// Parse runs the named rule on the given text.  It returns the rule's
// value, the leftover text, and whether the rule matched.
//
// The returned error reports a problem with the Grammar or the rule
// name.  Failing to match is not an error.
func (g *Grammar) Parse(name, text string) (interface{}, string, bool, error) {
	p, err := g.Parser(name)
	if err != nil {
		return nil, text, false, err
	}
	x, rest, ok := Run(p, text)
	return x, rest, ok, nil
}
