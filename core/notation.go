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
	"strings"
)

// The production notation is a whitespace-separated list of elements.
// Each element is an optional binding followed by what to match:
//
//	l:Term         the value of rule Term bound to l
//	op:'+'         the character '+' bound to op
//	n:/[0-9]+/     the text matched by a pattern bound to n
//	'('            a character that isn't bound
//	_:Ws           an explicit wildcard
//
// Inside quotes, \' is a quote and \\ is a backslash.  Inside slashes,
// \/ is a slash.
//
// The notation is itself parsed with this package's combinators.

var (
	notationSpace = PatternWith("re2", `\s*`, true)
	notationIdent = PatternWith("re2", `[A-Za-z_][A-Za-z0-9_]*`, true)
	notationChar  = PatternWith("re2", `'(?:\\.|[^'\\])'`, true)
	notationPat   = PatternWith("re2", `/(?:\\.|[^/\\])+/`, true)

	notationTarget = Transform[Either[string, Either[string, string]], *Element](
		Choice[string, Either[string, string]](
			notationIdent,
			Choice[string, string](notationChar, notationPat)),
		func(e Either[string, Either[string, string]]) *Element {
			if e.IsLeft {
				return &Element{Rule: e.Left}
			}
			if e.Right.IsLeft {
				return &Element{Char: unquoteChar(e.Right.Left)}
			}
			return &Element{Pattern: unslashPattern(e.Right.Right)}
		})

	notationBind = Transform[Pair[string, rune], string](
		Sequence[string, rune](notationIdent, Char(':')),
		func(p Pair[string, rune]) string {
			return p.Left
		})

	notationElement = Transform[Pair[Either[string, Values], *Element], *Element](
		Sequence[Either[string, Values], *Element](
			Choice[string, Values](notationBind, Unit),
			notationTarget),
		func(p Pair[Either[string, Values], *Element]) *Element {
			e := p.Right
			if p.Left.IsLeft {
				e.Bind = p.Left.Left
			}
			return e
		})
)

func unquoteChar(s string) string {
	s = s[1 : len(s)-1]
	if strings.HasPrefix(s, `\`) {
		return s[1:]
	}
	return s
}

func unslashPattern(s string) string {
	return strings.Replace(s[1:len(s)-1], `\/`, `/`, -1)
}

// ParseNotation parses production notation into Elements.
func ParseNotation(s string) ([]*Element, error) {
	var (
		in  = NewInput(s)
		acc = make([]*Element, 0, 4)
	)
	for {
		_, in, _ = notationSpace.Parse(in)
		if in.Empty() {
			return acc, nil
		}
		e, rest, ok := notationElement.Parse(in)
		if !ok {
			return nil, fmt.Errorf("can't parse production syntax at %q", in.String())
		}
		acc = append(acc, e)
		in = rest
	}
}
