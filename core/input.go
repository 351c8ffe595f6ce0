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

// Input is a view of a range of a text buffer.
//
// An Input is never modified.  Parsers narrow an Input by making new
// Inputs that share the same buffer, so any number of Inputs can
// alias one buffer without copying it.
type Input struct {
	buf    string
	lo, hi int
}

// NewInput makes an Input that covers all of the given text.
func NewInput(s string) Input {
	return Input{
		buf: s,
		hi:  len(s),
	}
}

// String returns the text in the view.
func (in Input) String() string {
	return in.buf[in.lo:in.hi]
}

// Len returns the number of bytes in the view.
func (in Input) Len() int {
	return in.hi - in.lo
}

// Empty reports whether the view has no text left.
func (in Input) Empty() bool {
	return in.lo >= in.hi
}

// Offset is the position of the start of the view in the underlying
// buffer.
func (in Input) Offset() int {
	return in.lo
}

// Advance drops the first n bytes of the view.
//
// Advancing past the end of the view yields an empty view.
func (in Input) Advance(n int) Input {
	lo := in.lo + n
	if lo > in.hi {
		lo = in.hi
	}
	if lo < in.lo {
		lo = in.lo
	}
	return Input{
		buf: in.buf,
		lo:  lo,
		hi:  in.hi,
	}
}

// Consumed returns the text between the start of this view and the
// start of rest, which should be a remainder of this view.
func (in Input) Consumed(rest Input) string {
	if rest.lo < in.lo || rest.lo > in.hi {
		return ""
	}
	return in.buf[in.lo:rest.lo]
}
