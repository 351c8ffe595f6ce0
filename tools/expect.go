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
	"path/filepath"
	"reflect"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/match"
	"github.com/Comcast/parsnip/util"

	"github.com/jsccast/yaml"
)

// Case is an input for a rule and what's expected from parsing it.
type Case struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Rule is the rule to run.  The grammar's start rule is the
	// default.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`

	Input string `json:"input" yaml:"input"`

	// Want, if not nil, is the expected value.  Values are
	// compared in their JSON form.
	Want interface{} `json:"want,omitempty" yaml:"want,omitempty"`

	// Rest, if not nil, is the expected leftover input.
	Rest *string `json:"rest,omitempty" yaml:"rest,omitempty"`

	// Match, if not nil, is a pattern (see package match) that
	// the value must match.  The pattern's variables are bound
	// for the Guard.
	Match interface{} `json:"match,omitempty" yaml:"match,omitempty"`

	// Fail means that the rule shouldn't match.
	Fail bool `json:"fail,omitempty" yaml:"fail,omitempty"`

	// Guard is optional procedural code that checks a parse.  It
	// sees bindings "input", "value", and "rest" (along with any
	// from Match), and it should return true.
	Guard core.Action `json:"-" yaml:"-"`

	// GuardSource is optional source that will be compiled to the
	// Guard.
	GuardSource *core.ActionSource `json:"guard,omitempty" yaml:"guard,omitempty"`
}

// Session is a list of Cases for a grammar.
type Session struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Grammar is the grammar's filename, which is relative to
	// the session's file.
	Grammar string `json:"grammar,omitempty" yaml:"grammar,omitempty"`

	Cases []Case `json:"cases" yaml:"cases"`

	// Interpreters are used (if necessary) to compile the grammar
	// and any GuardSources.
	Interpreters core.InterpretersMap `json:"-" yaml:"-"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`

	dir string
}

// Result is what happened with one Case.
type Result struct {
	Case    int         `json:"case"`
	Doc     string      `json:"doc,omitempty"`
	Input   string      `json:"input"`
	Matched bool        `json:"matched"`
	Value   interface{} `json:"value,omitempty"`
	Rest    string      `json:"rest"`

	// Problem is empty if the Case passed.
	Problem string `json:"problem,omitempty"`
}

// Report summarizes a Session run.
type Report struct {
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

// OK reports whether every Case passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// LoadSession reads (with inlines) a Session from a YAML file.
func LoadSession(filename string) (*Session, error) {
	bs, err := ReadFileWithInlines(filename)
	if err != nil {
		return nil, err
	}
	var s Session
	if err = yaml.Unmarshal(bs, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	s.dir = filepath.Dir(filename)
	return &s, nil
}

// LoadGrammar loads and compiles the Session's grammar.
func (s *Session) LoadGrammar(ctx context.Context) (*core.Grammar, error) {
	if s.Grammar == "" {
		return nil, fmt.Errorf("session has no grammar")
	}
	filename := s.Grammar
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(s.dir, filename)
	}
	return LoadGrammar(ctx, filename, s.Interpreters)
}

// Run parses each Case with the given compiled grammar.
//
// The returned error reports a problem with the Session itself (like
// a guard that doesn't compile).  Cases that don't pass are in the
// Report.
func (s *Session) Run(ctx context.Context, g *core.Grammar) (*Report, error) {
	for i := range s.Cases {
		c := &s.Cases[i]
		if c.GuardSource != nil {
			guard, err := c.GuardSource.Compile(ctx, s.Interpreters)
			if err != nil {
				return nil, fmt.Errorf("case %d guard: %w", i, err)
			}
			c.Guard = guard
		}
	}

	r := &Report{
		Results: make([]Result, 0, len(s.Cases)),
	}
	for i, c := range s.Cases {
		result := s.runCase(g, i, &c)
		if result.Problem == "" {
			r.Passed++
		} else {
			r.Failed++
		}
		if s.Verbose {
			util.Log.Infof("case %d %q: %s", i, c.Input, problemOrOK(result.Problem))
		}
		r.Results = append(r.Results, result)
	}
	return r, nil
}

func problemOrOK(problem string) string {
	if problem == "" {
		return "ok"
	}
	return problem
}

func (s *Session) runCase(g *core.Grammar, i int, c *Case) (result Result) {
	result = Result{
		Case:  i,
		Doc:   c.Doc,
		Input: c.Input,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Problem = fmt.Sprintf("panic: %v", r)
		}
	}()

	x, rest, ok, err := g.Parse(c.Rule, c.Input)
	if err != nil {
		result.Problem = err.Error()
		return
	}
	result.Matched, result.Rest = ok, rest

	if c.Fail {
		if ok {
			result.Problem = "matched but shouldn't have"
		}
		return
	}
	if !ok {
		result.Problem = "didn't match"
		return
	}

	value, err := core.Canonicalize(x)
	if err != nil {
		result.Problem = "value: " + err.Error()
		return
	}
	result.Value = value

	if c.Rest != nil && *c.Rest != rest {
		result.Problem = fmt.Sprintf("rest %q != %q", rest, *c.Rest)
		return
	}

	if c.Want != nil {
		want, err := core.Canonicalize(c.Want)
		if err != nil {
			result.Problem = "want: " + err.Error()
			return
		}
		if !reflect.DeepEqual(value, want) {
			result.Problem = fmt.Sprintf("value %s != %s", render(value), render(want))
			return
		}
	}

	bs := core.NewBindings()
	if c.Match != nil {
		pattern, err := core.Canonicalize(c.Match)
		if err != nil {
			result.Problem = "match: " + err.Error()
			return
		}
		var matched bool
		if bs, matched = match.Match(pattern, value, bs); !matched {
			result.Problem = fmt.Sprintf("value %s doesn't match %s", render(value), render(pattern))
			return
		}
	}

	if c.Guard != nil {
		bs.Extend("input", c.Input).Extend("value", value).Extend("rest", rest)
		y, err := c.Guard.Exec(bs)
		if err != nil {
			result.Problem = "guard: " + err.Error()
			return
		}
		if y == nil || y == false {
			result.Problem = "guard said no"
			return
		}
	}

	return
}

func render(x interface{}) string {
	bs, err := json.Marshal(x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}
