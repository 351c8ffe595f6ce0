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

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/tools"
	"github.com/Comcast/parsnip/util"
)

// Op is a Service operation.
//
// Op.Op is one of "define", "parse", "get", "list", "remove", or
// "analyze".
type Op struct {
	Op string `json:"op"`

	// Id is copied to the Response.
	Id string `json:"id,omitempty"`

	Grammar string `json:"grammar,omitempty"`

	// Rule is the rule that "parse" runs.  Empty means the
	// grammar's start rule.
	Rule string `json:"rule,omitempty"`

	Input string `json:"input,omitempty"`

	// Source is a YAML or JSON grammar for "define".
	Source string `json:"source,omitempty"`

	// Full makes "parse" report no match if the rule didn't
	// consume all of the input.
	Full bool `json:"full,omitempty"`

	// ReplyTo is an optional MQTT topic for the Response.
	ReplyTo string `json:"replyTo,omitempty"`
}

// Response reports the result of an Op.
type Response struct {
	Id string `json:"id,omitempty"`
	Op string `json:"op,omitempty"`

	// Ok is false when the Op itself failed.  A parse that didn't
	// match is still ok.
	Ok bool `json:"ok"`

	Matched bool        `json:"matched,omitempty"`
	Value   interface{} `json:"value,omitempty"`
	Rest    *string     `json:"rest,omitempty"`

	Names    []string               `json:"names,omitempty"`
	Source   string                 `json:"source,omitempty"`
	Analysis *tools.GrammarAnalysis `json:"analysis,omitempty"`

	Error string `json:"error,omitempty"`
}

func (r *Response) fail(err error) *Response {
	r.Ok = false
	r.Error = err.Error()
	return r
}

// Do performs the Op.
func (o *Op) Do(ctx context.Context, s *Service) *Response {
	util.Logf("Service op %s %s", o.Op, o.Id)

	r := &Response{
		Id: o.Id,
		Op: o.Op,
		Ok: true,
	}

	switch o.Op {
	case "define":
		if o.Source == "" {
			return r.fail(fmt.Errorf("define needs a source"))
		}
		g, err := s.Define(ctx, o.Grammar, []byte(o.Source))
		if err != nil {
			return r.fail(err)
		}
		r.Names = g.RuleNames()
	case "parse":
		g, err := s.Grammar(o.Grammar)
		if err != nil {
			return r.fail(err)
		}
		if err = o.parse(g, r); err != nil {
			return r.fail(err)
		}
	case "get":
		src, err := s.Source(o.Grammar)
		if err != nil {
			return r.fail(err)
		}
		r.Source = src
	case "list":
		r.Names = s.List()
	case "remove":
		if err := s.Remove(ctx, o.Grammar); err != nil {
			return r.fail(err)
		}
	case "analyze":
		g, err := s.Grammar(o.Grammar)
		if err != nil {
			return r.fail(err)
		}
		a, err := tools.Analyze(g)
		if err != nil {
			return r.fail(err)
		}
		r.Analysis = a
	default:
		return r.fail(fmt.Errorf("unknown op '%s'", o.Op))
	}

	return r
}

// parse runs the Op's rule.  A panic from the grammar (a bad pattern
// or an aborting action) is reported as an error.
func (o *Op) parse(g *core.Grammar, r *Response) (err error) {
	defer func() {
		if x := recover(); x != nil {
			if e, is := x.(error); is {
				err = e
			} else {
				err = fmt.Errorf("%v", x)
			}
		}
	}()

	x, rest, ok, err := g.Parse(o.Rule, o.Input)
	if err != nil {
		return err
	}
	if ok && o.Full && rest != "" {
		ok = false
	}
	r.Matched = ok
	r.Rest = &rest
	if !ok {
		return nil
	}
	if r.Value, err = core.Canonicalize(x); err != nil {
		return fmt.Errorf("can't render value: %w", err)
	}
	return nil
}

// Process decodes an Op, does it, and encodes the Response.
func (s *Service) Process(ctx context.Context, msg []byte) []byte {
	r := s.process(ctx, msg)
	js, err := json.Marshal(r)
	if err != nil {
		util.Log.Warningf("Service can't marshal response: %v", err)
		js, _ = json.Marshal((&Response{Id: r.Id, Op: r.Op}).fail(err))
	}
	return js
}

func (s *Service) process(ctx context.Context, msg []byte) *Response {
	var o Op
	if err := json.Unmarshal(msg, &o); err != nil {
		return (&Response{}).fail(fmt.Errorf("can't parse op: %w", err))
	}
	return o.Do(ctx, s)
}
