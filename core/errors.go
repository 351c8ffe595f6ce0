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

// These errors are user errors, not internal errors.

import "fmt"

// GrammarNotCompiled occurs when a Grammar is used before it has been
// Compile()ed.
type GrammarNotCompiled struct {
	Grammar *Grammar
}

func (e *GrammarNotCompiled) Error() string {
	return `grammar "` + e.Grammar.Name + `" not compiled`
}

// UnknownRule occurs when a rule name isn't in the Grammar.
type UnknownRule struct {
	Grammar  *Grammar
	RuleName string

	// Referrer is the rule (if any) that mentioned RuleName.
	Referrer string
}

func (e *UnknownRule) Error() string {
	msg := `rule "` + e.RuleName + `" not found in grammar "` + e.Grammar.Name + `"`
	if e.Referrer != "" {
		msg += ` (referenced by "` + e.Referrer + `")`
	}
	return msg
}

// BadElement occurs when a production element doesn't say exactly
// one thing to match.
type BadElement struct {
	RuleName   string
	Production int
	Element    int
	Problem    string
}

func (e *BadElement) Error() string {
	return fmt.Sprintf(`rule "%s" production %d element %d: %s`,
		e.RuleName, e.Production, e.Element, e.Problem)
}

// BadProduction occurs when a production as a whole doesn't make
// sense.  Example: two elements with the same binding name.
type BadProduction struct {
	RuleName   string
	Production int
	Problem    string
}

func (e *BadProduction) Error() string {
	return fmt.Sprintf(`rule "%s" production %d: %s`, e.RuleName, e.Production, e.Problem)
}

// UncompiledAction occurs when a production has an ActionSource that
// failed to compile.
type UncompiledAction struct {
	RuleName   string
	Production int
	Err        error
}

func (e *UncompiledAction) Error() string {
	return fmt.Sprintf(`rule "%s" production %d action: %v`, e.RuleName, e.Production, e.Err)
}

func (e *UncompiledAction) Unwrap() error {
	return e.Err
}

// ActionFailed is the panic value when an action returns an error
// and the Grammar has ActionErrorsAbort set.
type ActionFailed struct {
	RuleName   string
	Production int
	Err        error
}

func (e *ActionFailed) Error() string {
	return fmt.Sprintf(`rule "%s" production %d action failed: %v`, e.RuleName, e.Production, e.Err)
}

func (e *ActionFailed) Unwrap() error {
	return e.Err
}
