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
	"context"
	"errors"
)

var (
	// InterpreterNotFound occurs when you try to Compile an
	// ActionSource, and the required interpreter isn't in the
	// given map of interpreters.
	InterpreterNotFound = errors.New("interpreter not found")

	// DefaultInterpreters will be used in ActionSource.Compile if
	// the given nil interpreters.
	DefaultInterpreters = make(InterpretersMap)
)

// Interpreter can compile and execute code for actions.
type Interpreter interface {
	// Compile can make something that helps when Exec()ing the
	// code later.
	Compile(ctx context.Context, code interface{}) (interface{}, error)

	// Exec executes the code with the given bindings in scope and
	// returns the value of the Production.  The result of a
	// previous Compile() might be provided.
	Exec(bs Bindings, code interface{}, compiled interface{}) (interface{}, error)
}

// InterpretersMap maps interpreter names to Interpreters.
type InterpretersMap map[string]Interpreter

func NewInterpretersMap() InterpretersMap {
	return make(InterpretersMap, 4)
}

// Action computes the value of a Production from its Bindings.
//
// An Action should not have side effects.  The same Action can be
// executed concurrently by parses of different inputs.
type Action interface {
	Exec(Bindings) (interface{}, error)
}

// FuncAction is an Action implemented in Go.
type FuncAction struct {
	F func(Bindings) (interface{}, error) `json:"-" yaml:"-"`
}

// Exec runs the given action.
func (a *FuncAction) Exec(bs Bindings) (interface{}, error) {
	if a == nil || a.F == nil {
		return nil, nil
	}
	return a.F(bs)
}

// ActionFunc wraps a Go function that can't fail.
func ActionFunc(f func(Bindings) interface{}) *FuncAction {
	return &FuncAction{
		F: func(bs Bindings) (interface{}, error) {
			return f(bs), nil
		},
	}
}

// defaultAction gives the value of the only named binding, or, when
// there isn't exactly one, all the named bindings.
type defaultAction struct {
	names []string
}

func (a *defaultAction) Exec(bs Bindings) (interface{}, error) {
	if len(a.names) == 1 {
		return bs[a.names[0]], nil
	}
	return bs, nil
}

// ActionSource can be compiled to an Action.
type ActionSource struct {
	Interpreter string      `json:"interpreter,omitempty" yaml:",omitempty"`
	Source      interface{} `json:"source"`
}

// Copy makes a shallow copy.
func (a *ActionSource) Copy() *ActionSource {
	if a == nil {
		return nil
	}
	return &ActionSource{
		Interpreter: a.Interpreter,
		Source:      a.Source,
	}
}

// Compile attempts to compile the ActionSource into an Action using
// the given interpreters, which defaults to DefaultInterpreters.
func (a *ActionSource) Compile(ctx context.Context, interpreters InterpretersMap) (Action, error) {
	if interpreters == nil {
		interpreters = DefaultInterpreters
	}

	interpreter, have := interpreters[a.Interpreter]
	if !have {
		return nil, InterpreterNotFound
	}

	x, err := interpreter.Compile(ctx, a.Source)
	if err != nil {
		return nil, err
	}

	return &FuncAction{
		F: func(bs Bindings) (interface{}, error) {
			return interpreter.Exec(bs, a.Source, x)
		},
	}, nil
}
