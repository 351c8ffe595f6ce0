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

package goja

import (
	"context"
	"fmt"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

// requireStmt is the span (0-based, half-open) of a top-level
// require("name") statement.
type requireStmt struct {
	from, to int
	name     string
}

// requireOf returns the library name if the statement is a call to
// require.
func requireOf(stmt ast.Statement) (string, bool, error) {
	exp, is := stmt.(*ast.ExpressionStatement)
	if !is {
		return "", false, nil
	}
	call, is := exp.Expression.(*ast.CallExpression)
	if !is {
		return "", false, nil
	}
	if id, is := call.Callee.(*ast.Identifier); !is || id.Name != "require" {
		return "", false, nil
	}
	if len(call.ArgumentList) != 1 {
		return "", true, fmt.Errorf("require wants one argument, not %d", len(call.ArgumentList))
	}
	lit, is := call.ArgumentList[0].(*ast.StringLiteral)
	if !is {
		return "", true, fmt.Errorf("require wants a string literal")
	}
	return string(lit.Value), true, nil
}

// InlineRequires generates new source code that replaces top-level
// require("name") statements with the code that the provider gives
// for those names.
//
// The source is parsed, so it must be a complete program.  Action
// code (which can "return") is not, so only libraries go through
// here.  The rewriting is textual: Goja can't combine Programs.
func InlineRequires(ctx context.Context, src string, provider func(context.Context, string) (string, error)) (string, error) {
	prog, err := parser.ParseFile(nil, "", src, 0)
	if err != nil {
		return "", err
	}

	var stmts []requireStmt
	for _, stmt := range prog.Body {
		name, is, err := requireOf(stmt)
		if err != nil {
			return "", err
		}
		if !is {
			continue
		}
		// Parser indexes are 1-based.
		stmts = append(stmts, requireStmt{
			from: int(stmt.Idx0()) - 1,
			to:   int(stmt.Idx1()) - 1,
			name: name,
		})
	}

	if len(stmts) == 0 {
		return src, nil
	}

	var b strings.Builder
	at := 0
	for _, r := range stmts {
		lib, err := provider(ctx, r.name)
		if err != nil {
			return "", err
		}
		b.WriteString(src[at:r.from])
		b.WriteString(lib)
		b.WriteString("\n")
		at = r.to
	}
	b.WriteString(src[at:])

	return b.String(), nil
}
