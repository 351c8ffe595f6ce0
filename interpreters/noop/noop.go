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

package noop

import (
	"context"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/util"
)

// Interpreter ignores the code it's given.  Its actions produce a
// copy of the production's bindings.
//
// Useful for checking the structure of a grammar before its actions
// are written.
type Interpreter struct {
	// Silent, if false, will log warnings.
	Silent bool
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

func (i *Interpreter) Compile(ctx context.Context, code interface{}) (interface{}, error) {
	if !i.Silent {
		util.Log.Warning("using noop Interpreter for compilation")
	}
	return nil, nil
}

func (i *Interpreter) Exec(bs core.Bindings, code interface{}, compiled interface{}) (interface{}, error) {
	if !i.Silent {
		util.Logf("warning: using noop Interpreter for execution")
	}
	return bs.Copy(), nil
}
