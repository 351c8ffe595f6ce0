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

// Package service offers compiled grammars to remote callers.
//
// A Service holds named grammars, which are compiled once and then
// shared by concurrent requests.  Grammar sources are kept in a
// storage.Storage so that a restarted Service can recompile them.
//
// Requests are JSON Ops (see Op), which can arrive via stdio (see
// Stdio), WebSockets (see WebSocketHandler), or MQTT (see MQTT).
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Comcast/parsnip/core"
	"github.com/Comcast/parsnip/storage"
	"github.com/Comcast/parsnip/tools"
	"github.com/Comcast/parsnip/util"
)

// UnknownGrammar is returned when a request refers to a grammar that
// the Service doesn't have.
type UnknownGrammar struct {
	Name string
}

func (e *UnknownGrammar) Error() string {
	return fmt.Sprintf("unknown grammar '%s'", e.Name)
}

// LeftRecursive is returned when a grammar has rules that can reach
// themselves without consuming input.  Parsing with one would
// recurse until the stack overflows.
type LeftRecursive struct {
	Rules []string
}

func (e *LeftRecursive) Error() string {
	return fmt.Sprintf("left-recursive rules: %s", strings.Join(e.Rules, ", "))
}

type Service struct {
	Interpreters core.InterpretersMap
	Storage      storage.Storage

	sync.RWMutex
	grammars map[string]*core.Grammar
	sources  map[string]string
}

// NewService makes a Service.  If st is nil, the Service uses a
// storage.MemStorage.
func NewService(interpreters core.InterpretersMap, st storage.Storage) *Service {
	if st == nil {
		st = storage.NewMemStorage()
	}
	return &Service{
		Interpreters: interpreters,
		Storage:      st,
		grammars:     make(map[string]*core.Grammar),
		sources:      make(map[string]string),
	}
}

// Start opens the Service's storage and compiles the grammars found
// there.
//
// A stored grammar that no longer compiles (or is left-recursive)
// is logged and skipped.
func (s *Service) Start(ctx context.Context) error {
	if err := s.Storage.Open(ctx); err != nil {
		return err
	}
	names, err := s.Storage.ListGrammars(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		r, err := s.Storage.GetGrammar(ctx, name)
		if err != nil {
			return err
		}
		g, err := s.compile(ctx, []byte(r.Source))
		if err != nil {
			util.Log.Warningf("stored grammar %s: %v", name, err)
			continue
		}
		s.Lock()
		s.grammars[name] = g
		s.sources[name] = r.Source
		s.Unlock()
		util.Logf("Service loaded grammar %s", name)
	}
	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	return s.Storage.Close(ctx)
}

func (s *Service) compile(ctx context.Context, src []byte) (*core.Grammar, error) {
	g, err := tools.ParseGrammar(src)
	if err != nil {
		return nil, err
	}
	a, err := tools.Analyze(g)
	if err != nil {
		return nil, err
	}
	if 0 < len(a.LeftRecursive) {
		return nil, &LeftRecursive{a.LeftRecursive}
	}
	if err = g.Compile(ctx, s.Interpreters, true); err != nil {
		return nil, err
	}
	return g, nil
}

// Define compiles and stores a grammar.  If name is empty, the
// grammar's own Name is used.
//
// An existing grammar with the same name is replaced only if the new
// one compiles.  A left-recursive grammar is rejected with a
// *LeftRecursive error.
func (s *Service) Define(ctx context.Context, name string, src []byte) (*core.Grammar, error) {
	g, err := s.compile(ctx, src)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = g.Name
	}
	if name == "" {
		return nil, fmt.Errorf("grammar has no name")
	}

	r := &storage.GrammarRecord{
		Name:   name,
		Source: string(src),
	}
	if err = s.Storage.PutGrammar(ctx, r); err != nil {
		return nil, err
	}

	s.Lock()
	s.grammars[name] = g
	s.sources[name] = r.Source
	s.Unlock()

	util.Logf("Service defined grammar %s", name)

	return g, nil
}

// Grammar returns the named compiled grammar.
func (s *Service) Grammar(name string) (*core.Grammar, error) {
	s.RLock()
	g, have := s.grammars[name]
	s.RUnlock()
	if !have {
		return nil, &UnknownGrammar{name}
	}
	return g, nil
}

// Source returns the source of the named grammar.
func (s *Service) Source(name string) (string, error) {
	s.RLock()
	src, have := s.sources[name]
	s.RUnlock()
	if !have {
		return "", &UnknownGrammar{name}
	}
	return src, nil
}

// Remove removes the named grammar from storage and then forgets it.
//
// If storage fails, the grammar is still available.
func (s *Service) Remove(ctx context.Context, name string) error {
	s.Lock()
	defer s.Unlock()

	if _, have := s.grammars[name]; !have {
		return &UnknownGrammar{name}
	}

	if err := s.Storage.RemGrammar(ctx, name); err != nil && err != storage.NotFound {
		return err
	}

	delete(s.grammars, name)
	delete(s.sources, name)
	return nil
}

// List returns the sorted names of the Service's grammars.
func (s *Service) List() []string {
	s.RLock()
	acc := make([]string, 0, len(s.grammars))
	for name := range s.grammars {
		acc = append(acc, name)
	}
	s.RUnlock()
	sort.Strings(acc)
	return acc
}
