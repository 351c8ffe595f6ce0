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
)

// Parser is anything that can parse a prefix of an Input.
//
// Parse returns the output, the remaining Input, and true on
// success.  On failure, Parse returns false along with the Input it
// was given.  A Parser holds no state between calls.
type Parser[T any] interface {
	Parse(in Input) (T, Input, bool)
}

// ParserFunc makes a Parser from a Go function.
type ParserFunc[T any] func(in Input) (T, Input, bool)

// Parse implements the Parser interface.
func (f ParserFunc[T]) Parse(in Input) (T, Input, bool) {
	return f(in)
}

// Run parses the given text and returns the output along with the
// leftover text.
//
// A non-empty leftover means that only a prefix of the text was
// parsed.  See Complete.
func Run[T any](p Parser[T], text string) (T, string, bool) {
	x, rest, ok := p.Parse(NewInput(text))
	if !ok {
		var zero T
		return zero, text, false
	}
	return x, rest.String(), true
}

// Complete is Run that also requires that all of the text was
// consumed.
func Complete[T any](p Parser[T], text string) (T, bool) {
	x, rest, ok := Run(p, text)
	if !ok || rest != "" {
		var zero T
		return zero, false
	}
	return x, true
}

// Erase hides the output type of a Parser.
func Erase[T any](p Parser[T]) Parser[any] {
	if q, is := any(p).(Parser[any]); is {
		return q
	}
	return ParserFunc[any](func(in Input) (any, Input, bool) {
		x, rest, ok := p.Parse(in)
		if !ok {
			return nil, in, false
		}
		return x, rest, true
	})
}

// OutputTypeMismatch is the panic value when a Typed parser sees an
// output that doesn't have the declared type.
//
// This problem is a defect in the grammar or in an action, not in
// the input.
type OutputTypeMismatch struct {
	Want string
	Got  interface{}
}

func (e *OutputTypeMismatch) Error() string {
	return fmt.Sprintf("output %#v (%T) is not a %s", e.Got, e.Got, e.Want)
}

// Typed recovers the output type of an erased Parser (such as a
// rule's Parser).
func Typed[T any](p Parser[any]) Parser[T] {
	return ParserFunc[T](func(in Input) (T, Input, bool) {
		var zero T
		x, rest, ok := p.Parse(in)
		if !ok {
			return zero, in, false
		}
		if x == nil {
			return zero, rest, true
		}
		t, is := x.(T)
		if !is {
			panic(&OutputTypeMismatch{
				Want: reflect.TypeOf((*T)(nil)).Elem().String(),
				Got:  x,
			})
		}
		return t, rest, true
	})
}
