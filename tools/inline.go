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

package tools

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/util"
)

var inlineDirective = core.Pattern(`%inline *\("[^"]*"\)`)

// Inline replaces '%inline("NAME")' with f(NAME).
func Inline(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	in := core.NewInput(string(bs))
	acc := make([]byte, 0, len(bs))
	for {
		consumed, rest, ok := inlineDirective.Parse(in)
		if !ok {
			acc = append(acc, in.String()...)
			break
		}

		// The consumed text ends with the directive.
		at := strings.LastIndex(consumed, "%inline")
		acc = append(acc, consumed[:at]...)
		directive := consumed[at:]

		name := directive[strings.Index(directive, `"`)+1 : len(directive)-2]
		replacement, err := f(name)
		if err != nil {
			return nil, err
		}
		util.Logf("debug inlining %s: %d bytes", name, len(replacement))
		acc = append(acc, replacement...)

		in = rest
	}

	return acc, nil
}

func dirReader(dir string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}
}

// ReadFileWithInlines is a replacement for os.ReadFile that adds
// automatic Inline()ing based on the directory obtained from the
// filename.
//
// '%inline("NAME")' is replaced with ReadFile(NAME).
func ReadFileWithInlines(filename string) ([]byte, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Inline(bs, dirReader(filepath.Dir(filename)))
}

// ReadAllWithInlines is a replacement for io.ReadAll that adds
// automatic Inline()ing based on the given directory.
func ReadAllWithInlines(in io.Reader, dir string) ([]byte, error) {
	bs, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return Inline(bs, dirReader(dir))
}
