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
	"fmt"
	"strconv"
)

// Op is a binary operation in the CalcGrammar's output.
type Op struct {
	Op string      `json:"op"`
	L  interface{} `json:"l"`
	R  interface{} `json:"r"`
}

func (o *Op) String() string {
	return fmt.Sprintf("(%v %s %v)", o.L, o.Op, o.R)
}

// Eval computes the value of CalcGrammar output.
func Eval(x interface{}) (int, error) {
	switch vv := x.(type) {
	case int:
		return vv, nil
	case *Op:
		l, err := Eval(vv.L)
		if err != nil {
			return 0, err
		}
		r, err := Eval(vv.R)
		if err != nil {
			return 0, err
		}
		switch vv.Op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/":
			if r == 0 {
				return 0, errors.New("division by zero")
			}
			return l / r, nil
		default:
			return 0, fmt.Errorf("unknown operator %q", vv.Op)
		}
	default:
		return 0, fmt.Errorf("can't evaluate %#v (%T)", x, x)
	}
}

// CalcGrammar makes an example Grammar for integer arithmetic that's
// useful to have around.
//
// The rules are right-recursive, so multiplication binds more tightly
// than addition, but operators of equal precedence group to the
// right: "8-2-1" is 8-(2-1).
func CalcGrammar(ctx context.Context) (*Grammar, error) {

	binop := ActionFunc(func(bs Bindings) interface{} {
		return &Op{
			Op: bs.String("op"),
			L:  bs["l"],
			R:  bs["r"],
		}
	})

	number := &FuncAction{
		F: func(bs Bindings) (interface{}, error) {
			return strconv.Atoi(bs.String("n"))
		},
	}

	g := &Grammar{
		Name:           "calc",
		Start:          "Expr",
		AnchorPatterns: true,
		Rules: map[string]*Rule{
			"Expr": {
				Output: "expr",
				Productions: []*Production{
					{Syntax: `l:Term op:'+' r:Expr`, Action: binop},
					{Syntax: `l:Term op:'-' r:Expr`, Action: binop},
					{Syntax: `t:Term`},
				},
			},
			"Term": {
				Output: "expr",
				Productions: []*Production{
					{Syntax: `l:Factor op:'*' r:Term`, Action: binop},
					{Syntax: `l:Factor op:'/' r:Term`, Action: binop},
					{Syntax: `f:Factor`},
				},
			},
			"Factor": {
				Output: "expr",
				Productions: []*Production{
					{Syntax: `'(' e:Expr ')'`},
					{Syntax: `n:Number`},
				},
			},
			"Number": {
				Output: "int",
				Productions: []*Production{
					{Syntax: `n:/[0-9]+/`, Action: number},
				},
			},
		},
	}

	if err := g.Compile(ctx, nil, true); err != nil {
		return nil, err
	}

	return g, nil
}
