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


// Package core provides the core gear for parsing text with
// combinators and with grammars built from them.
//
// The primary type is Parser, which parses a prefix of an Input (a
// view of a text buffer) and returns an output and the rest of the
// Input.  Failure is just failure: there is no error message, no
// position, and no partial result.
//
// Parsers compose.  Sequence runs two parsers one after the other.
// Choice tries a second parser (on the same input) only if the first
// fails.  Transform maps an output.  Tuple runs any number of parsers
// in order and fails if any of them fails.  Unit matches nothing.  The
// primitive parsers are Char, which matches one literal character,
// and Pattern, which matches a regular expression.
//
// A Grammar is a set of named Rules.  Each Rule has an ordered list of
// Productions.  Each Production is a list of Elements (each with an
// optional binding name) and an Action that computes the
// Production's value from the bindings.  To use a Grammar, make it
// (in Go or from YAML), Compile() it, and then get a rule's Parser.
//
// A Production's Action can be Go code (FuncAction) or source code
// that an Interpreter compiles.  See ../interpreters.
//
// Rules can refer to each other and to themselves, but a rule must
// not be left-recursive: a production that starts with its own rule
// (directly or through other rules) recurses forever without
// consuming input.  There is no memoization, so a grammar with lots
// of overlapping productions can parse the same text many times.
//
// Two things are treated as defects rather than failures: a pattern
// that doesn't compile (see BadPattern) and, if the Grammar asks for
// it, an action that returns an error (see ActionFailed).  Both
// panic.
package core
