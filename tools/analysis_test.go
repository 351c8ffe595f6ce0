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
	"reflect"
	"testing"

	"github.com/Comcast/parsnip/core"
)

func TestAnalyzeCalc(t *testing.T) {
	g, err := core.CalcGrammar(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	a, err := Analyze(g)
	if err != nil {
		t.Fatal(err)
	}

	if a.RuleCount != 4 {
		t.Fatal(a.RuleCount)
	}
	if a.Productions != 9 {
		t.Fatal(a.Productions)
	}
	if a.Actions != 5 {
		t.Fatal(a.Actions)
	}
	if a.Patterns != 1 || a.Chars != 6 {
		t.Fatal(a.Patterns, a.Chars)
	}
	if len(a.LeftRecursive) != 0 {
		t.Fatal(a.LeftRecursive)
	}
	if len(a.Orphans) != 0 {
		t.Fatal(a.Orphans)
	}
	if len(a.MissingRules) != 0 {
		t.Fatal(a.MissingRules)
	}
	if len(a.Problems()) != 0 {
		t.Fatal(a.Problems())
	}
	if !reflect.DeepEqual(a.Interpreters, []string{"go"}) {
		t.Fatal(a.Interpreters)
	}
}

func TestAnalyzeLeftRecursion(t *testing.T) {
	g := &core.Grammar{
		Start: "Expr",
		Rules: map[string]*core.Rule{
			// Directly left-recursive.
			"Expr": {Productions: []*core.Production{
				{Syntax: `l:Expr '+' r:Num`},
				{Syntax: `n:Num`},
			}},
			"Num": {Productions: []*core.Production{
				{Syntax: `n:/[0-9]+/`},
			}},
			// Left-recursive through a nullable rule.
			"List": {Productions: []*core.Production{
				{Syntax: `_:Ws x:List`},
				{Syntax: `x:Num`},
			}},
			"Ws": {Productions: []*core.Production{
				{Syntax: `s:/\s*/`},
			}},
			// Indirect.
			"A": {Productions: []*core.Production{{Syntax: `b:B 'a'`}}},
			"B": {Productions: []*core.Production{{Syntax: `a:A 'b'`}, {Syntax: `'c'`}}},
			// Recursion after consuming something is fine.
			"Paren": {Productions: []*core.Production{{Syntax: `'(' p:Paren ')'`}, {Syntax: `'x'`}}},
		},
	}

	a, err := Analyze(g)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"A", "B", "Expr", "List"}; !reflect.DeepEqual(a.LeftRecursive, want) {
		t.Fatalf("%v != %v", a.LeftRecursive, want)
	}
	if want := []string{"Ws"}; !reflect.DeepEqual(a.Nullable, want) {
		t.Fatalf("%v != %v", a.Nullable, want)
	}
	if want := []string{"List", "Paren"}; !reflect.DeepEqual(a.Orphans, want) {
		t.Fatalf("%v != %v", a.Orphans, want)
	}
	if len(a.Problems()) != 4 {
		t.Fatal(a.Problems())
	}
}

func TestAnalyzeMissingAndBad(t *testing.T) {
	g := &core.Grammar{
		Start: "S",
		Rules: map[string]*core.Rule{
			"A": {Productions: []*core.Production{
				{Syntax: `x:Nope y:/[0-9/`},
				{Syntax: `x:`},
				{Syntax: `y:/(?=x)/`, Elements: nil},
			}},
			"E": {},
		},
	}

	a, err := Analyze(g)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Nope", "S"}; !reflect.DeepEqual(a.MissingRules, want) {
		t.Fatalf("%v != %v", a.MissingRules, want)
	}
	// re2 doesn't do lookahead.
	if want := []string{"(?=x)", "[0-9"}; !reflect.DeepEqual(a.BadPatterns, want) {
		t.Fatalf("%v != %v", a.BadPatterns, want)
	}
	if want := []string{"E"}; !reflect.DeepEqual(a.EmptyRules, want) {
		t.Fatalf("%v != %v", a.EmptyRules, want)
	}
	if len(a.Errors) != 1 {
		t.Fatal(a.Errors)
	}
}
