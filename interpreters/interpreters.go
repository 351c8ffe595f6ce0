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

// Package interpreters collects the action interpreters.
package interpreters

import (
	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/interpreters/goja"
	"github.com/Comcast/parsnip/interpreters/noop"
)

// Standard returns a new map of the standard interpreters.
//
//	goja, ecmascript: JavaScript via github.com/dop251/goja
//	noop: ignores the code and returns the bindings
func Standard() core.InterpretersMap {
	is := core.NewInterpretersMap()

	js := goja.NewInterpreter()
	is["goja"] = js
	is["ecmascript"] = js

	is["noop"] = noop.NewInterpreter()

	return is
}
