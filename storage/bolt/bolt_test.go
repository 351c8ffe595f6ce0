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

package bolt

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Comcast/parsnip/storage"
)

func TestImpl(t *testing.T) {
	// Just confirm that this code compiles.
	var _ storage.Storage = &Storage{}
}

func TestBasics(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "storage.db")

	s, err := NewStorage(filename)
	if err != nil {
		t.Fatal(err)
	}
	s.Debug = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.PutGrammar(ctx, &storage.GrammarRecord{Name: "x"}); err != NotOpen {
		t.Fatal(err)
	}

	if err := s.Open(ctx); err != nil {
		t.Fatal(err)
	}

	for _, r := range []*storage.GrammarRecord{
		{Name: "calc", Source: "start: Expr"},
		{Name: "pairs", Source: "start: Pairs"},
	} {
		if err := s.PutGrammar(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	check := func(name, want string) {
		got, err := s.GetGrammar(ctx, name)
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != name || got.Source != want {
			t.Fatalf("%#v", got)
		}
		if got.Written.IsZero() {
			t.Fatal("not written")
		}
	}

	check("calc", "start: Expr")

	names, err := s.ListGrammars(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"calc", "pairs"}) {
		t.Fatal(names)
	}

	if err = s.RemGrammar(ctx, "calc"); err != nil {
		t.Fatal(err)
	}
	if _, err = s.GetGrammar(ctx, "calc"); err != storage.NotFound {
		t.Fatal(err)
	}
	if err = s.RemGrammar(ctx, "calc"); err != storage.NotFound {
		t.Fatal(err)
	}

	// Survives reopening.
	if err = s.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err = s.Open(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := s.Close(ctx); err != nil {
			t.Fatal(err)
		}
	}()

	check("pairs", "start: Pairs")
}
