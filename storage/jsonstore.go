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

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// JSONStore is a primitive Storage that keeps grammars in memory and
// writes them all as JSON to a file.
//
// Not glamorous or efficient.
type JSONStore struct {
	*MemStorage

	// Filename is read by Open and written by Close.
	Filename string

	// WritePerChange writes the file after every change rather
	// than just at Close.
	WritePerChange bool
}

func NewJSONStore(filename string) *JSONStore {
	return &JSONStore{
		MemStorage: NewMemStorage(),
		Filename:   filename,
	}
}

// Open reads the file if it exists.
func (s *JSONStore) Open(ctx context.Context) error {
	js, err := os.ReadFile(s.Filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var records map[string]*GrammarRecord
	if err = json.Unmarshal(js, &records); err != nil {
		return err
	}

	s.Lock()
	for name, r := range records {
		r.Name = name
		s.records[name] = r
	}
	s.Unlock()

	return nil
}

// Close writes the file.
func (s *JSONStore) Close(ctx context.Context) error {
	return s.WriteState(ctx)
}

// WriteState writes all of the grammars as JSON.
func (s *JSONStore) WriteState(ctx context.Context) error {
	s.Lock()
	js, err := json.MarshalIndent(s.records, "", "  ")
	s.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(s.Filename, js, 0644)
}

func (s *JSONStore) PutGrammar(ctx context.Context, r *GrammarRecord) error {
	if err := s.MemStorage.PutGrammar(ctx, r); err != nil {
		return err
	}
	if s.WritePerChange {
		return s.WriteState(ctx)
	}
	return nil
}

func (s *JSONStore) RemGrammar(ctx context.Context, name string) error {
	if err := s.MemStorage.RemGrammar(ctx, name); err != nil {
		return err
	}
	if s.WritePerChange {
		return s.WriteState(ctx)
	}
	return nil
}
