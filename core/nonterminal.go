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
	"github.com/Comcast/parsnip/util"
)

// Nonterminal is the compiled Parser for a Rule.
//
// A Nonterminal holds only what Grammar.Compile gave it, so the same
// Nonterminal can parse different inputs concurrently.
type Nonterminal struct {
	Name string

	alts  []*alternative
	abort bool
}

// alternative is a compiled Production.
type alternative struct {
	index  int
	tuple  Tup
	binds  []string
	action Action
}

// Parse tries each production in order on the given Input.  The first
// production whose elements all match and whose action succeeds
// determines the output.
func (n *Nonterminal) Parse(in Input) (interface{}, Input, bool) {
	for _, alt := range n.alts {
		// Every production starts from the rule's own input.
		vs, rest, ok := alt.tuple.Parse(in)
		if !ok {
			continue
		}

		bs := make(Bindings, len(alt.binds))
		for i, name := range alt.binds {
			if !IsWildcard(name) {
				bs[name] = vs[i]
			}
		}

		x, err := alt.action.Exec(bs)
		if err != nil {
			if n.abort {
				panic(&ActionFailed{n.Name, alt.index, err})
			}
			util.Logf("rule %s production %d action error: %v", n.Name, alt.index, err)
			continue
		}

		return x, rest, true
	}

	return nil, in, false
}
