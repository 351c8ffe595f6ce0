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

package interpreters

import (
	"context"
	"testing"

	"github.com/Comcast/parsnip/core"
)

func TestStandard(t *testing.T) {
	is := Standard()
	for _, name := range []string{"goja", "ecmascript", "noop"} {
		if _, have := is[name]; !have {
			t.Fatalf("no %s", name)
		}
	}
}

func TestStandardInGrammar(t *testing.T) {
	g := &core.Grammar{
		AnchorPatterns: true,
		Start:          "Greeting",
		Rules: map[string]*core.Rule{
			"Greeting": {Productions: []*core.Production{
				{
					Syntax: `w:/hello|hi/ _:/\s+/ n:/[a-z]+/`,
					ActionSource: &core.ActionSource{
						Interpreter: "ecmascript",
						Source:      `return _.bindings.w + ", " + _.bindings.n;`,
					},
				},
			}},
		},
	}
	if err := g.Compile(context.Background(), Standard(), true); err != nil {
		t.Fatal(err)
	}
	x, rest, ok, err := g.Parse("", "hi there!")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || x != "hi, there" || rest != "!" {
		t.Fatal(x, rest, ok)
	}
}
