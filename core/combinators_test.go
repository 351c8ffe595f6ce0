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
	"fmt"
	"reflect"
	"testing"
)

func anchored(src string) *Pat {
	return PatternWith("", src, true)
}

func TestSequence(t *testing.T) {
	p := Sequence[rune, rune](Char('a'), Char('b'))

	x, rest, ok := Run[Pair[rune, rune]](p, "abc")
	if !ok {
		t.Fatal("didn't match")
	}
	if x.Left != 'a' || x.Right != 'b' {
		t.Fatal(x)
	}
	if rest != "c" {
		t.Fatal(rest)
	}

	// Failure in the second half gives back the whole input.
	if _, rest, ok = Run[Pair[rune, rune]](p, "axc"); ok {
		t.Fatal("shouldn't have matched")
	} else if rest != "axc" {
		t.Fatal(rest)
	}
}

func TestChoiceFirstWins(t *testing.T) {
	p := Choice[string, string](anchored("a"), anchored("ab"))
	x, rest, ok := Run[Either[string, string]](p, "abc")
	if !ok {
		t.Fatal("didn't match")
	}
	if !x.IsLeft || x.Left != "a" {
		t.Fatal(x)
	}
	if rest != "bc" {
		t.Fatal(rest)
	}
}

func TestChoiceRight(t *testing.T) {
	p := Choice[rune, rune](Char('a'), Char('b'))
	x, rest, ok := Run[Either[rune, rune]](p, "bc")
	if !ok {
		t.Fatal("didn't match")
	}
	if x.IsLeft || x.Right != 'b' {
		t.Fatal(x)
	}
	if x.Value() != 'b' {
		t.Fatal(x.Value())
	}
	if rest != "c" {
		t.Fatal(rest)
	}

	if _, rest, ok = Run[Either[rune, rune]](p, "cb"); ok {
		t.Fatal("shouldn't have matched")
	} else if rest != "cb" {
		t.Fatal(rest)
	}
}

func TestChoiceBacktracks(t *testing.T) {
	// The left branch consumes 'a' before failing.  The right
	// branch must still see the 'a'.
	p := Choice[Pair[rune, rune], rune](Sequence[rune, rune](Char('a'), Char('b')), Char('a'))
	x, rest, ok := Run[Either[Pair[rune, rune], rune]](p, "ac")
	if !ok {
		t.Fatal("didn't match")
	}
	if x.IsLeft || x.Right != 'a' {
		t.Fatal(x)
	}
	if rest != "c" {
		t.Fatal(rest)
	}
}

func TestTransformIdentity(t *testing.T) {
	p := anchored("[a-z]+")
	id := Transform[string, string](p, func(s string) string { return s })

	for _, text := range []string{"abc123", "123", "", "z"} {
		x, rest, ok := Run[string](p, text)
		y, rest2, ok2 := Run[string](id, text)
		if x != y || rest != rest2 || ok != ok2 {
			t.Fatalf("%q: (%q %q %v) != (%q %q %v)", text, x, rest, ok, y, rest2, ok2)
		}
	}
}

func TestTransform(t *testing.T) {
	p := Transform[string, int](anchored("[a-z]+"), func(s string) int { return len(s) })
	n, rest, ok := Run[int](p, "abc!")
	if !ok || n != 3 || rest != "!" {
		t.Fatal(n, rest, ok)
	}
}

func TestUnit(t *testing.T) {
	for _, text := range []string{"abc", ""} {
		vs, rest, ok := Run[Values](Unit, text)
		if !ok {
			t.Fatal("Unit failed")
		}
		if len(vs) != 0 {
			t.Fatal(vs)
		}
		if rest != text {
			t.Fatal(rest)
		}
	}
}

func TestTuple(t *testing.T) {
	p := Tuple(
		Erase[rune](Char('a')),
		Erase[string](anchored("[0-9]+")),
		Erase[rune](Char('b')))

	vs, rest, ok := Run[Values](p, "a12bz")
	if !ok {
		t.Fatal("didn't match")
	}
	if !reflect.DeepEqual(vs, Values{'a', "12", 'b'}) {
		t.Fatal(vs)
	}
	if rest != "z" {
		t.Fatal(rest)
	}

	if _, rest, ok = Run[Values](p, "a12z"); ok {
		t.Fatal("shouldn't have matched")
	} else if rest != "a12z" {
		t.Fatal(rest)
	}
}

func TestTupleArity(t *testing.T) {
	const chars = "abcdefghijklmnopqrstuvwxyz0123"

	for _, n := range []int{1, 26, 30} {
		t.Run(fmt.Sprintf("%d", n), func(t *testing.T) {
			var (
				ps   = make([]Parser[any], n)
				want = make(Values, n)
			)
			for i, c := range chars[:n] {
				ps[i] = Erase[rune](Char(c))
				want[i] = c
			}
			p := Tuple(ps...)

			vs, rest, ok := Run[Values](p, chars[:n]+"!")
			if !ok {
				t.Fatal("didn't match")
			}
			if !reflect.DeepEqual(vs, want) {
				t.Fatal(vs)
			}
			if rest != "!" {
				t.Fatal(rest)
			}

			// Only the last element fails.
			text := chars[:n-1] + "?!"
			if vs, rest, ok = Run[Values](p, text); ok {
				t.Fatal(vs)
			} else if rest != text {
				t.Fatal(rest)
			}
		})
	}
}

func TestTupleEmpty(t *testing.T) {
	vs, rest, ok := Run[Values](Tuple(), "xyz")
	if !ok {
		t.Fatal("empty tuple failed")
	}
	if len(vs) != 0 || rest != "xyz" {
		t.Fatal(vs, rest)
	}
}

func TestComplete(t *testing.T) {
	if _, ok := Complete[rune](Char('a'), "ab"); ok {
		t.Fatal("shouldn't be complete")
	}
	if c, ok := Complete[rune](Char('a'), "a"); !ok || c != 'a' {
		t.Fatal(c, ok)
	}
}

func TestTyped(t *testing.T) {
	p := Typed[string](Erase[string](anchored("[a-z]+")))
	s, rest, ok := Run[string](p, "ab1")
	if !ok || s != "ab" || rest != "1" {
		t.Fatal(s, rest, ok)
	}
}

func TestTypedMismatch(t *testing.T) {
	p := Typed[int](Erase[string](anchored("[a-z]+")))

	defer func() {
		r := recover()
		e, is := r.(*OutputTypeMismatch)
		if !is {
			t.Fatalf("wrong panic %#v", r)
		}
		if e.Want != "int" {
			t.Fatal(e.Want)
		}
	}()

	Run[int](p, "ab")
}

func TestParserFunc(t *testing.T) {
	any1 := ParserFunc[rune](func(in Input) (rune, Input, bool) {
		s := in.String()
		if s == "" {
			return 0, in, false
		}
		return rune(s[0]), in.Advance(1), true
	})
	c, rest, ok := Run[rune](any1, "xy")
	if !ok || c != 'x' || rest != "y" {
		t.Fatal(c, rest, ok)
	}
}
