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

import "testing"

func TestInputAdvance(t *testing.T) {
	in := NewInput("abc")
	if in.Len() != 3 || in.Empty() {
		t.Fatal(in.Len())
	}

	rest := in.Advance(1)
	if s := rest.String(); s != "bc" {
		t.Fatal(s)
	}
	if rest.Offset() != 1 {
		t.Fatal(rest.Offset())
	}
	if s := in.Consumed(rest); s != "a" {
		t.Fatal(s)
	}

	// The original view is unchanged.
	if s := in.String(); s != "abc" {
		t.Fatal(s)
	}

	end := in.Advance(10)
	if !end.Empty() || end.String() != "" {
		t.Fatal(end.String())
	}
	if s := in.Consumed(end); s != "abc" {
		t.Fatal(s)
	}
}

func TestInputConsumedForeign(t *testing.T) {
	in := NewInput("abcdef").Advance(3)
	if s := in.Consumed(NewInput("abcdef")); s != "" {
		t.Fatal(s)
	}
}
