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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/util"

	"github.com/dop251/goja"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Exec if the execution is
	// interrupted.
	Interrupted = errors.New(InterruptedMessage)
)

// init adds a Interpreter as one of the DefaultInterpreters
func init() {
	core.DefaultInterpreters["goja"] = NewInterpreter()
}

// Interpreter implements core.Intepreter using Goja, which is a
// Go implementation of ECMAScript 5.1+.
//
// See https://github.com/dop251/goja.
type Interpreter struct {

	// Testing is used to expose or hide some runtime
	// capabilities.
	Testing bool

	// Timeout, if positive, limits how long a single action can
	// run.  Parsing has no context, so this limit is the only
	// way to stop a runaway action.
	Timeout time.Duration

	// LibraryProvider is a pluggable library provider, which can
	// be used instead of DefaultLibraryProvider.
	LibraryProvider func(ctx context.Context, i *Interpreter, libraryName string) (string, error)
}

// NewInterpreter makes a new Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		Timeout: time.Second,
	}
}

// CompileLibrary checks that a library compiles.
func (i *Interpreter) CompileLibrary(ctx context.Context, name, src string) (interface{}, error) {
	return goja.Compile(name, src, true)
}

// ProvideLibrary resolves the library name into a library.
//
// A library can require() other libraries at its top level.  Those
// calls are replaced by the required libraries' code.
func (i *Interpreter) ProvideLibrary(ctx context.Context, name string) (string, error) {
	return i.provideLibrary(ctx, name, map[string]bool{})
}

func (i *Interpreter) provideLibrary(ctx context.Context, name string, seen map[string]bool) (string, error) {
	if seen[name] {
		return "", fmt.Errorf("library '%s' requires itself", name)
	}
	seen[name] = true
	defer delete(seen, name)

	provider := i.LibraryProvider
	if provider == nil {
		provider = DefaultLibraryProvider
	}
	src, err := provider(ctx, i, name)
	if err != nil {
		return "", err
	}
	return InlineRequires(ctx, src, func(ctx context.Context, name string) (string, error) {
		return i.provideLibrary(ctx, name, seen)
	})
}

var DefaultLibraryProvider = MakeFileLibraryProvider(".")

// MakeFileLibraryProvider makes a library provider that supports
// (barely) names that are URLs with protocols of "file", "http", and
// "https".  File names are relative to the given directory.
func MakeFileLibraryProvider(dir string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		parts := strings.SplitN(name, "://", 2)
		if 2 != len(parts) {
			return "", fmt.Errorf("bad link '%s'", name)
		}
		switch parts[0] {
		case "file":
			bs, err := os.ReadFile(filepath.Join(dir, filepath.Clean("/"+parts[1])))
			if err != nil {
				return "", err
			}
			return string(bs), nil
		case "http", "https":
			req, err := http.NewRequestWithContext(ctx, "GET", name, nil)
			if err != nil {
				return "", err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close()
			switch resp.StatusCode {
			case http.StatusOK:
				bs, err := io.ReadAll(resp.Body)
				if err != nil {
					return "", err
				}
				return string(bs), nil
			default:
				return "", fmt.Errorf("library fetch status %s %d",
					resp.Status, resp.StatusCode)
			}
		default:
			return "", fmt.Errorf("unknown protocol '%s'", parts[0])
		}
	}
}

func MakeMapLibraryProvider(srcs map[string]string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		src, have := srcs[name]
		if !have {
			return "", fmt.Errorf("undefined library '%s'", name)
		}
		return src, nil
	}
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

// parseSource looks into the given map to try to find "requires" and
// "code" properties.
func parseSource(vv map[string]interface{}) (code string, libs []string, err error) {
	x, have := vv["code"]
	if !have {
		err = errors.New("no Goja action code")
		return
	}
	if s, is := x.(string); is {
		code = s
	} else {
		err = errors.New("bad Goja action code")
		return
	}

	x = vv["requires"]
	switch vv := x.(type) {
	case nil:
	case string:
		libs = []string{vv}
	case []string:
		libs = vv
	case []interface{}:
		libs = make([]string, 0, len(vv))
		for _, x := range vv {
			s, is := x.(string)
			if !is {
				err = errors.New("bad library")
				return
			}
			libs = append(libs, s)
		}
	default:
		err = fmt.Errorf("bad requires (%T)", x)
	}

	return
}

// AsSource finds the code and required libraries in an action's
// source, which is either a string of code or a map with "code" and
// "requires" properties.
//
// A map[interface{}]interface{} (which gopkg.in/yaml.v2 produces) is
// accepted, too.
func AsSource(src interface{}) (code string, libs []string, err error) {
	switch vv := src.(type) {
	case string:
		code = vv
		return
	case map[interface{}]interface{}:
		m := make(map[string]interface{})
		for k, v := range vv {
			str, ok := k.(string)
			if !ok {
				err = fmt.Errorf("bad src key (%T)", k)
				return
			}
			m[str] = v
		}
		return parseSource(m)
	case map[string]interface{}:
		return parseSource(vv)
	default:
		err = fmt.Errorf("bad Goja source (%T)", src)
		return
	}
}

// Compile prepends any required libraries to the code and then calls
// goja.Compile.
//
// This method can block if the interpreter's library provider blocks
// in order to obtain external libraries.
func (i *Interpreter) Compile(ctx context.Context, src interface{}) (interface{}, error) {
	code, libs, err := AsSource(src)
	if err != nil {
		return nil, err
	}

	code = wrapSrc(code)

	var libsSrc string
	for _, lib := range libs {
		libSrc, err := i.ProvideLibrary(ctx, lib)
		if err != nil {
			return nil, err
		}
		libsSrc += libSrc + "\n"
	}

	code = libsSrc + code

	obj, err := goja.Compile("", code, true)
	if err != nil {
		return nil, errors.New(err.Error() + ": " + code)
	}

	return obj, nil
}

func protest(o *goja.Runtime, x interface{}) {
	panic(o.ToValue(x))
}

func export(x interface{}) interface{} {
	if v, is := x.(goja.Value); is {
		return v.Export()
	}
	return x
}

// jsBindings prepares bindings for a runtime.  Characters become
// one-character strings, and other values get their JSON form.
func jsBindings(bs core.Bindings) (map[string]interface{}, error) {
	acc := make(map[string]interface{}, len(bs))
	for k, v := range bs {
		if r, is := v.(rune); is {
			acc[k] = string(r)
			continue
		}
		x, err := core.Canonicalize(v)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", k, err)
		}
		acc[k] = x
	}
	return acc, nil
}

// Exec implements the Interpreter method of the same name.
//
// The code's return value is the production's value.  A thrown
// exception is an action error.
//
// The following properties are available from the runtime at _.
//
//	bindings: the map of the production's bindings.
//	log(x): log x as JSON.
//	match(pat, s): the first match of the re2 pattern in s, or null.
//
// For testing only:
//
//	sleep(ms): sleep for the given number of milliseconds.
//
// The Testing flag must be set to see sleep().
func (i *Interpreter) Exec(bs core.Bindings, src interface{}, compiled interface{}) (interface{}, error) {
	ctx := context.Background()

	var p *goja.Program
	if compiled == nil {
		var err error
		if compiled, err = i.Compile(ctx, src); err != nil {
			return nil, err
		}
	}
	var is bool
	if p, is = compiled.(*goja.Program); !is {
		return nil, fmt.Errorf("Goja bad compilation: %T %#v", compiled, compiled)
	}

	bindings, err := jsBindings(bs)
	if err != nil {
		return nil, err
	}

	env := map[string]interface{}{
		"bindings": bindings,
	}

	o := goja.New()

	o.Set("_", env)

	if i.Testing {
		o.Set("sleep", func(ms int) {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		})
	}

	env["log"] = func(x interface{}) interface{} {
		x = export(x)
		js, err := json.Marshal(&x)
		if err != nil {
			util.Log.Warningf("goja.log (can't marshal: %s)", err)
		} else {
			util.Log.Infof("goja.log %s", js)
		}
		return x
	}

	env["match"] = func(pat, s interface{}) interface{} {
		src, is := export(pat).(string)
		if !is {
			protest(o, "pattern isn't a string")
		}
		text, is := export(s).(string)
		if !is {
			protest(o, "text isn't a string")
		}
		f, err := core.Pattern(src).Compile()
		if err != nil {
			protest(o, err.Error())
		}
		lo, hi, found := f.FindIndex(text)
		if !found {
			return nil
		}
		return text[lo:hi]
	}

	if 0 < i.Timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	// We want to make sure that the following goroutine is
	// terminated as soon as possible.
	ictx, cancel := context.WithCancel(ctx)
	go func() {
		<-ictx.Done()
		// If this Exec method calls cancel() after RunProgram
		// returns, the interrupt is never seen.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := o.RunProgram(p)
	cancel()

	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return nil, Interrupted
		}
		return nil, err
	}

	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}

	return v.Export(), nil
}
