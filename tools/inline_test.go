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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInline(t *testing.T) {
	input := `
I like %inline("tacos"), and
I also like %inline ("queso").
Both are delicious.
`
	want := `
I like TACOS, and
I also like QUESO.
Both are delicious.
`

	find := func(name string) ([]byte, error) {
		return []byte(strings.ToUpper(name)), nil
	}

	got, err := Inline([]byte(input), find)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("got %s", got)
	}
}

func TestInlineNothing(t *testing.T) {
	got, err := Inline([]byte("no directives"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "no directives" {
		t.Fatal(string(got))
	}
}

func TestInlineError(t *testing.T) {
	find := func(name string) ([]byte, error) {
		return nil, errors.New("no " + name)
	}
	if _, err := Inline([]byte(`x %inline("y") z`), find); err == nil {
		t.Fatal("should have complained")
	}
}

func TestReadFileWithInlines(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "action.js"), []byte(`return 1;`), 0644); err != nil {
		t.Fatal(err)
	}
	main := filepath.Join(dir, "g.yaml")
	if err := os.WriteFile(main, []byte(`source: %inline("action.js")`), 0644); err != nil {
		t.Fatal(err)
	}
	bs, err := ReadFileWithInlines(main)
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != `source: return 1;` {
		t.Fatal(string(bs))
	}

	bs, err = ReadAllWithInlines(strings.NewReader(`%inline("action.js")!`), dir)
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != `return 1;!` {
		t.Fatal(string(bs))
	}
}
