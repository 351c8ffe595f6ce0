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

// Package storage is a persistence interface for named grammar
// sources.
package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// NotFound is returned when a grammar isn't in storage.
var NotFound = errors.New("not found")

// GrammarRecord is a stored grammar source.
type GrammarRecord struct {
	Name string `json:"name,omitempty"`

	// Source is the grammar's YAML (or JSON).
	Source string `json:"source"`

	Written time.Time `json:"written"`
}

// Storage is a persistence interface for grammar sources.
type Storage interface {
	Open(ctx context.Context) error

	Close(ctx context.Context) error

	PutGrammar(ctx context.Context, r *GrammarRecord) error

	// GetGrammar returns NotFound if there's no such grammar.
	GetGrammar(ctx context.Context, name string) (*GrammarRecord, error)

	// RemGrammar returns NotFound if there's no such grammar.
	RemGrammar(ctx context.Context, name string) error

	// ListGrammars returns the sorted names of the stored grammars.
	ListGrammars(ctx context.Context) ([]string, error)
}

// MemStorage keeps grammars in memory.
type MemStorage struct {
	sync.Mutex
	records map[string]*GrammarRecord
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		records: make(map[string]*GrammarRecord),
	}
}

func (s *MemStorage) Open(ctx context.Context) error {
	return nil
}

func (s *MemStorage) Close(ctx context.Context) error {
	return nil
}

func (s *MemStorage) PutGrammar(ctx context.Context, r *GrammarRecord) error {
	s.Lock()
	c := *r
	s.records[r.Name] = &c
	s.Unlock()
	return nil
}

func (s *MemStorage) GetGrammar(ctx context.Context, name string) (*GrammarRecord, error) {
	s.Lock()
	defer s.Unlock()
	r, have := s.records[name]
	if !have {
		return nil, NotFound
	}
	c := *r
	return &c, nil
}

func (s *MemStorage) RemGrammar(ctx context.Context, name string) error {
	s.Lock()
	defer s.Unlock()
	if _, have := s.records[name]; !have {
		return NotFound
	}
	delete(s.records, name)
	return nil
}

func (s *MemStorage) ListGrammars(ctx context.Context) ([]string, error) {
	s.Lock()
	acc := make([]string, 0, len(s.records))
	for name := range s.records {
		acc = append(acc, name)
	}
	s.Unlock()
	sort.Strings(acc)
	return acc, nil
}
