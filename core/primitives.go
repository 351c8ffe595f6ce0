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
	"regexp"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Lit matches a single literal character.
type Lit rune

// Char makes a Lit.
func Char(c rune) Lit {
	return Lit(c)
}

func (c Lit) Parse(in Input) (rune, Input, bool) {
	r, n := utf8.DecodeRuneInString(in.String())
	if n == 0 || r != rune(c) {
		return 0, in, false
	}
	if r == utf8.RuneError && n == 1 {
		// Invalid UTF-8, not an encoded U+FFFD.
		return 0, in, false
	}
	return r, in.Advance(n), true
}

// Finder finds the first match of a compiled pattern in a string.
type Finder interface {
	// FindIndex returns the byte offsets of the first match.
	FindIndex(s string) (lo, hi int, found bool)
}

// PatternCompiler compiles pattern text into a Finder.
type PatternCompiler func(src string) (Finder, error)

var (
	// DefaultPatternSyntax is used when a pattern doesn't say
	// otherwise.
	DefaultPatternSyntax = "re2"

	// PatternCompilers maps a pattern syntax name to its compiler.
	//
	// "re2" is Go's regexp package.  "regexp2" supports
	// backtracking constructs like lookahead.
	PatternCompilers = map[string]PatternCompiler{
		"re2":     compileRE2,
		"regexp2": compileRegexp2,
	}
)

type re2Finder struct {
	re *regexp.Regexp
}

func compileRE2(src string) (Finder, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}
	return &re2Finder{re}, nil
}

func (f *re2Finder) FindIndex(s string) (int, int, bool) {
	loc := f.re.FindStringIndex(s)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

type regexp2Finder struct {
	re *regexp2.Regexp
}

func compileRegexp2(src string) (Finder, error) {
	re, err := regexp2.Compile(src, regexp2.None)
	if err != nil {
		return nil, err
	}
	return &regexp2Finder{re}, nil
}

func (f *regexp2Finder) FindIndex(s string) (int, int, bool) {
	m, err := f.re.FindStringMatch(s)
	if err != nil || m == nil {
		return 0, 0, false
	}
	// regexp2 reports rune offsets.
	lo := byteOffset(s, 0, m.Index)
	hi := byteOffset(s, lo, m.Length)
	return lo, hi, true
}

// byteOffset advances n runes from byte offset 'from'.
func byteOffset(s string, from, n int) int {
	i := from
	for ; 0 < n && i < len(s); n-- {
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return i
}

// BadPattern is the panic value when a pattern doesn't compile.
//
// A bad pattern is a defect in the grammar, so it isn't reported as
// a parse failure.
type BadPattern struct {
	Syntax  string
	Pattern string
	Err     error
}

func (e *BadPattern) Error() string {
	return fmt.Sprintf("bad %s pattern %q: %v", e.Syntax, e.Pattern, e.Err)
}

func (e *BadPattern) Unwrap() error {
	return e.Err
}

// Pat matches the text of a pattern.
//
// The pattern is compiled on every call.  Nothing is cached, so a Pat
// can be shared freely, but a Pat that's used a lot pays for
// compilation every time.
type Pat struct {
	Syntax string
	Src    string

	// Anchored requires the match to start at the beginning of
	// the input.  Otherwise the first match anywhere in the input
	// counts, and the output is all of the consumed text: the
	// text before the match along with the match.
	Anchored bool
}

// Pattern makes an unanchored Pat with the default syntax.
func Pattern(src string) *Pat {
	return &Pat{Src: src}
}

// PatternWith makes a Pat with the given syntax and anchoring.
func PatternWith(syntax, src string, anchored bool) *Pat {
	return &Pat{
		Syntax:   syntax,
		Src:      src,
		Anchored: anchored,
	}
}

func (p *Pat) syntax() string {
	if p.Syntax == "" {
		return DefaultPatternSyntax
	}
	return p.Syntax
}

// Compile makes the Finder for this pattern.
func (p *Pat) Compile() (Finder, error) {
	syntax := p.syntax()
	compile, have := PatternCompilers[syntax]
	if !have {
		return nil, &BadPattern{
			Syntax:  syntax,
			Pattern: p.Src,
			Err:     fmt.Errorf("unknown pattern syntax"),
		}
	}
	f, err := compile(p.Src)
	if err != nil {
		return nil, &BadPattern{
			Syntax:  syntax,
			Pattern: p.Src,
			Err:     err,
		}
	}
	return f, nil
}

// Parse outputs the matched text.  The remaining Input starts after
// the end of the match.
//
// Parse panics with a *BadPattern if the pattern doesn't compile.
func (p *Pat) Parse(in Input) (string, Input, bool) {
	f, err := p.Compile()
	if err != nil {
		panic(err)
	}
	s := in.String()
	lo, hi, found := f.FindIndex(s)
	if !found || (p.Anchored && lo != 0) {
		return "", in, false
	}
	rest := in.Advance(hi)
	return in.Consumed(rest), rest, true
}
