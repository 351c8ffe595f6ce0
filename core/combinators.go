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

// Pair is the output of Sequence.
type Pair[L, R any] struct {
	Left  L
	Right R
}

// Either is the output of Choice: the output of whichever branch
// succeeded.
type Either[L, R any] struct {
	IsLeft bool
	Left   L
	Right  R
}

// Value returns the output of the branch that succeeded.
func (e Either[L, R]) Value() interface{} {
	if e.IsLeft {
		return e.Left
	}
	return e.Right
}

// Values is the output of Tuple and Unit.
type Values []interface{}

// Seq runs Left and then Right on whatever Left left.
type Seq[L, R any] struct {
	Left  Parser[L]
	Right Parser[R]
}

// Sequence makes a Seq.
func Sequence[L, R any](l Parser[L], r Parser[R]) *Seq[L, R] {
	return &Seq[L, R]{l, r}
}

func (s *Seq[L, R]) Parse(in Input) (Pair[L, R], Input, bool) {
	var p Pair[L, R]
	l, rest, ok := s.Left.Parse(in)
	if !ok {
		return p, in, false
	}
	r, rest, ok := s.Right.Parse(rest)
	if !ok {
		return p, in, false
	}
	p.Left, p.Right = l, r
	return p, rest, true
}

// Alt is an ordered choice.
//
// Right is only tried if Left fails, and then Right sees the same
// Input that Left saw.
type Alt[L, R any] struct {
	Left  Parser[L]
	Right Parser[R]
}

// Choice makes an Alt.
func Choice[L, R any](l Parser[L], r Parser[R]) *Alt[L, R] {
	return &Alt[L, R]{l, r}
}

func (a *Alt[L, R]) Parse(in Input) (Either[L, R], Input, bool) {
	var e Either[L, R]
	if l, rest, ok := a.Left.Parse(in); ok {
		e.IsLeft, e.Left = true, l
		return e, rest, true
	}
	if r, rest, ok := a.Right.Parse(in); ok {
		e.Right = r
		return e, rest, true
	}
	return e, in, false
}

// Map transforms the output of a Parser.
type Map[T, U any] struct {
	P Parser[T]
	F func(T) U
}

// Transform makes a Map.  F should be a pure function.
func Transform[T, U any](p Parser[T], f func(T) U) *Map[T, U] {
	return &Map[T, U]{p, f}
}

func (m *Map[T, U]) Parse(in Input) (U, Input, bool) {
	x, rest, ok := m.P.Parse(in)
	if !ok {
		var zero U
		return zero, in, false
	}
	return m.F(x), rest, true
}

// Unit always succeeds without consuming anything.  Its output is
// empty Values.
var Unit Parser[Values] = unit{}

type unit struct{}

func (unit) Parse(in Input) (Values, Input, bool) {
	return Values{}, in, true
}

// Tup runs its Parsers in order, each on what the previous one left.
type Tup []Parser[any]

// Tuple makes a Tup.  A Tuple of nothing acts like Unit.
func Tuple(ps ...Parser[any]) Tup {
	return Tup(ps)
}

func (t Tup) Parse(in Input) (Values, Input, bool) {
	acc := make(Values, len(t))
	rest := in
	for i, p := range t {
		x, more, ok := p.Parse(rest)
		if !ok {
			return nil, in, false
		}
		acc[i] = x
		rest = more
	}
	return acc, rest, true
}
