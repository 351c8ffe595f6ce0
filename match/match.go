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

// Package match matches parse values against patterns.
//
// A pattern is a JSON-like value (maps, arrays, strings, numbers,
// booleans, null) that can contain variables.  A variable is a string
// that starts with '?'.  The first occurrence of a variable binds it
// to the corresponding part of the value, and later occurrences must
// equal that binding.  The anonymous variable "?" matches anything
// and isn't bound.
//
// A map pattern matches a map value if each of the pattern's
// properties matches the value's property.  The value can have other
// properties (unless the Matcher is Exact).  A property whose pattern
// is an optional variable ("??x") can be missing.
//
// Array patterns match element-wise, and the lengths must be equal.
package match

import (
	"reflect"
	"strings"

	"github.com/Comcast/parsnip/core"
)

type Matcher struct {
	// Exact requires map values to have exactly the pattern's
	// properties.
	Exact bool
}

var DefaultMatcher = &Matcher{}

// IsVariable reports if the string represents a pattern variable.
func IsVariable(s string) bool {
	return strings.HasPrefix(s, "?")
}

func isOptional(x interface{}) bool {
	s, is := x.(string)
	return is && strings.HasPrefix(s, "??")
}

// VariableName is the binding name for a variable: the variable
// without its leading question marks.
func VariableName(s string) string {
	return strings.TrimLeft(s, "?")
}

// fudge is a hack to cast numbers to float64s.
func fudge(x interface{}) interface{} {
	switch vv := x.(type) {
	case float32:
		return float64(vv)
	case int:
		return float64(vv)
	case int32:
		return float64(vv)
	case int64:
		return float64(vv)
	case []string:
		acc := make([]interface{}, len(vv))
		for i, s := range vv {
			acc[i] = s
		}
		return acc
	default:
		return x
	}
}

// Match attempts to match the fact with the pattern.  If successful,
// Match returns a copy of the given bindings extended with the
// pattern's variables.  The given bindings are not modified.
func (m *Matcher) Match(pattern, fact interface{}, bs core.Bindings) (core.Bindings, bool) {
	if bs == nil {
		bs = core.NewBindings()
	} else {
		bs = bs.Copy()
	}
	if !m.match(pattern, fact, bs) {
		return nil, false
	}
	return bs, true
}

// Match uses the DefaultMatcher.
func Match(pattern, fact interface{}, bs core.Bindings) (core.Bindings, bool) {
	return DefaultMatcher.Match(pattern, fact, bs)
}

func (m *Matcher) match(pattern, fact interface{}, bs core.Bindings) bool {
	pattern, fact = fudge(pattern), fudge(fact)

	switch vv := pattern.(type) {
	case string:
		if !IsVariable(vv) {
			s, is := fact.(string)
			return is && s == vv
		}
		if vv == "?" {
			return true
		}
		name := VariableName(vv)
		if have, bound := bs[name]; bound {
			return reflect.DeepEqual(fudge(have), fact)
		}
		bs[name] = fact
		return true

	case map[string]interface{}:
		fm, is := fact.(map[string]interface{})
		if !is {
			return false
		}
		if m.Exact && len(fm) != len(vv) {
			return false
		}
		for k, p := range vv {
			fv, have := fm[k]
			if !have {
				if isOptional(p) {
					continue
				}
				return false
			}
			if !m.match(p, fv, bs) {
				return false
			}
		}
		return true

	case []interface{}:
		fs, is := fact.([]interface{})
		if !is || len(fs) != len(vv) {
			return false
		}
		for i, p := range vv {
			if !m.match(p, fs[i], bs) {
				return false
			}
		}
		return true

	default:
		return reflect.DeepEqual(pattern, fact)
	}
}
