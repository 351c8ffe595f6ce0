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

package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Comcast/parsnip/interpreters"
	"github.com/Comcast/parsnip/storage"
	"github.com/Comcast/parsnip/storage/bolt"
	. "github.com/Comcast/parsnip/util/testutil"
)

// leftYAML would recurse forever on any input.
var leftYAML = `
name: left
start: E
rules:
  E:
    productions:
      - syntax: "e:E '+'"
      - syntax: "'x'"
`

var sumYAML = `
name: sum
doc: Sums of natural numbers.
start: Sum
anchorPatterns: true
rules:
  Sum:
    productions:
      - syntax: "x:Num '+' y:Sum"
        action:
          interpreter: goja
          source: "return _.bindings.x + _.bindings.y;"
      - syntax: "x:Num"
  Num:
    productions:
      - syntax: "n:/[0-9]+/"
        action:
          interpreter: goja
          source: "return parseInt(_.bindings.n, 10);"
  Bad:
    productions:
      - elements:
          - bind: p
            pattern: "("
`

func newService(t *testing.T, st storage.Storage) (context.Context, *Service) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := NewService(interpreters.Standard(), st)
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := s.Stop(ctx); err != nil {
			t.Fatal(err)
		}
	})
	return ctx, s
}

func do(ctx context.Context, t *testing.T, s *Service, o *Op) *Response {
	t.Helper()
	r := o.Do(ctx, s)
	if r.Id != o.Id || r.Op != o.Op {
		t.Fatalf("%#v", r)
	}
	return r
}

func TestOps(t *testing.T) {
	ctx, s := newService(t, nil)

	r := do(ctx, t, s, &Op{Op: "define", Id: "1", Source: sumYAML})
	if !r.Ok {
		t.Fatal(r.Error)
	}
	if !reflect.DeepEqual(r.Names, []string{"Bad", "Num", "Sum"}) {
		t.Fatal(r.Names)
	}

	t.Run("parse", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Input: "1+2+3"})
		if !r.Ok || !r.Matched || *r.Rest != "" {
			t.Fatalf("%#v", r)
		}
		CheckJSON(t, r.Value, 6)
	})

	t.Run("partial", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Input: "1+2x"})
		if !r.Ok || !r.Matched || *r.Rest != "x" {
			t.Fatalf("%#v", r)
		}
		CheckJSON(t, r.Value, 3)
	})

	t.Run("full", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Input: "1+2x", Full: true})
		if !r.Ok || r.Matched || r.Value != nil {
			t.Fatalf("%#v", r)
		}
	})

	t.Run("rule", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Rule: "Num", Input: "12+3"})
		if !r.Ok || !r.Matched || *r.Rest != "+3" {
			t.Fatalf("%#v", r)
		}
		CheckJSON(t, r.Value, 12)
	})

	t.Run("nomatch", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Input: "x"})
		if !r.Ok || r.Matched || *r.Rest != "x" {
			t.Fatalf("%#v", r)
		}
	})

	t.Run("unknownrule", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Rule: "Nope", Input: "1"})
		if r.Ok || r.Error == "" {
			t.Fatalf("%#v", r)
		}
	})

	t.Run("badpattern", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Rule: "Bad", Input: "("})
		if r.Ok || r.Error == "" {
			t.Fatalf("%#v", r)
		}
	})

	t.Run("get", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "get", Grammar: "sum"})
		if !r.Ok || r.Source != sumYAML {
			t.Fatalf("%#v", r)
		}
	})

	t.Run("analyze", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "analyze", Grammar: "sum"})
		if !r.Ok {
			t.Fatal(r.Error)
		}
		a := r.Analysis
		if a.RuleCount != 3 || a.Actions != 2 {
			t.Fatalf("%#v", a)
		}
		if !reflect.DeepEqual(a.BadPatterns, []string{"("}) {
			t.Fatal(a.BadPatterns)
		}
	})

	t.Run("list", func(t *testing.T) {
		r := do(ctx, t, s, &Op{Op: "list"})
		if !reflect.DeepEqual(r.Names, []string{"sum"}) {
			t.Fatal(r.Names)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if r := do(ctx, t, s, &Op{Op: "remove", Grammar: "sum"}); !r.Ok {
			t.Fatal(r.Error)
		}
		r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Input: "1"})
		if r.Ok {
			t.Fatalf("%#v", r)
		}
		if r = do(ctx, t, s, &Op{Op: "remove", Grammar: "sum"}); r.Ok {
			t.Fatalf("%#v", r)
		}
	})
}

func TestBadOps(t *testing.T) {
	ctx, s := newService(t, nil)

	for _, o := range []*Op{
		{Op: "dance"},
		{Op: "define"},
		{Op: "define", Source: "rules: ["},
		{Op: "define", Source: "rules: {A: {productions: [{syntax: 'B'}]}}"},
		// No name.
		{Op: "define", Source: "rules: {A: {productions: [{syntax: \"'a'\"}]}}"},
		{Op: "get", Grammar: "nope"},
		{Op: "analyze", Grammar: "nope"},
	} {
		if r := o.Do(ctx, s); r.Ok || r.Error == "" {
			t.Fatalf("%#v: %#v", o, r)
		}
	}

	if names := s.List(); len(names) != 0 {
		t.Fatal(names)
	}
}

func TestDefineReplace(t *testing.T) {
	ctx, s := newService(t, nil)

	if _, err := s.Define(ctx, "x", []byte(sumYAML)); err != nil {
		t.Fatal(err)
	}
	// A grammar that doesn't compile doesn't replace a good one.
	if _, err := s.Define(ctx, "x", []byte("rules: {A: {productions: [{syntax: 'B'}]}}")); err == nil {
		t.Fatal("should have complained")
	}
	g, err := s.Grammar("x")
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "sum" {
		t.Fatal(g.Name)
	}
}

func TestDefineLeftRecursive(t *testing.T) {
	ctx, s := newService(t, nil)

	_, err := s.Define(ctx, "", []byte(leftYAML))
	var lr *LeftRecursive
	if !errors.As(err, &lr) {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(lr.Rules, []string{"E"}) {
		t.Fatal(lr.Rules)
	}

	r := do(ctx, t, s, &Op{Op: "define", Id: "1", Source: leftYAML})
	if r.Ok || r.Error == "" {
		t.Fatalf("%#v", r)
	}

	// So there's nothing to parse with.
	r = do(ctx, t, s, &Op{Op: "parse", Id: "2", Grammar: "left", Input: "x+"})
	if r.Ok || r.Matched {
		t.Fatalf("%#v", r)
	}

	if names := s.List(); len(names) != 0 {
		t.Fatal(names)
	}
	if _, err = s.Storage.GetGrammar(ctx, "left"); err != storage.NotFound {
		t.Fatal(err)
	}
}

// stuckStorage can't remove anything.
type stuckStorage struct {
	*storage.MemStorage
}

func (s *stuckStorage) RemGrammar(ctx context.Context, name string) error {
	return errors.New("stuck")
}

func TestRemoveStorageFails(t *testing.T) {
	ctx, s := newService(t, &stuckStorage{storage.NewMemStorage()})

	if _, err := s.Define(ctx, "", []byte(sumYAML)); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, "sum"); err == nil {
		t.Fatal("should have complained")
	}

	// Memory still agrees with storage.
	if _, err := s.Grammar("sum"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Source("sum"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Storage.GetGrammar(ctx, "sum"); err != nil {
		t.Fatal(err)
	}
	r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Input: "1+1"})
	if !r.Matched {
		t.Fatalf("%#v", r)
	}
	CheckJSON(t, r.Value, 2)
}

func TestRestart(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "grammars.db")
	open := func() storage.Storage {
		st, err := bolt.NewStorage(filename)
		if err != nil {
			t.Fatal(err)
		}
		return st
	}

	ctx := context.Background()

	s := NewService(interpreters.Standard(), open())
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Define(ctx, "", []byte(sumYAML)); err != nil {
		t.Fatal(err)
	}
	// Stored grammars that don't compile are skipped.
	for name, src := range map[string]string{"broken": "rules: [", "left": leftYAML} {
		if err := s.Storage.PutGrammar(ctx, &storage.GrammarRecord{Name: name, Source: src}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatal(err)
	}

	ctx, s = newService(t, open())
	if names := s.List(); !reflect.DeepEqual(names, []string{"sum"}) {
		t.Fatal(names)
	}
	r := do(ctx, t, s, &Op{Op: "parse", Grammar: "sum", Input: "40+2"})
	if !r.Matched {
		t.Fatalf("%#v", r)
	}
	CheckJSON(t, r.Value, 42)
}

func TestProcess(t *testing.T) {
	ctx, s := newService(t, nil)

	var r Response
	if err := json.Unmarshal(s.Process(ctx, []byte("{op:")), &r); err != nil {
		t.Fatal(err)
	}
	if r.Ok || r.Error == "" {
		t.Fatalf("%#v", r)
	}

	js, err := json.Marshal(&Op{Op: "define", Id: "d", Source: sumYAML})
	if err != nil {
		t.Fatal(err)
	}
	if err = json.Unmarshal(s.Process(ctx, js), &r); err != nil {
		t.Fatal(err)
	}
	if !r.Ok || r.Id != "d" {
		t.Fatalf("%#v", r)
	}
}
