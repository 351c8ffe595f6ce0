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

// Package bolt implements storage.Storage with BoltDB
// (go.etcd.io/bbolt).
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/Comcast/parsnip/storage"
	"github.com/Comcast/parsnip/util"

	bolt "go.etcd.io/bbolt"
)

var grammarsBucket = []byte("grammars")

type Storage struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
	}, nil
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db

	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(grammarsBucket)
		return err
	})
}

func (s *Storage) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		util.Log.Debugf("BoltDB Storage."+format, args...)
	}
}

var NotOpen = errors.New("storage not open")

func (s *Storage) PutGrammar(ctx context.Context, r *storage.GrammarRecord) error {
	s.logf("PutGrammar %s", r.Name)
	if s.db == nil {
		return NotOpen
	}

	// The name is the key.
	rec := storage.GrammarRecord{
		Source:  r.Source,
		Written: r.Written,
	}
	if rec.Written.IsZero() {
		rec.Written = time.Now().UTC()
	}
	js, err := json.Marshal(&rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(grammarsBucket).Put([]byte(r.Name), js)
	})
}

func (s *Storage) GetGrammar(ctx context.Context, name string) (*storage.GrammarRecord, error) {
	s.logf("GetGrammar %s", name)
	if s.db == nil {
		return nil, NotOpen
	}

	var r *storage.GrammarRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		js := tx.Bucket(grammarsBucket).Get([]byte(name))
		if js == nil {
			return storage.NotFound
		}
		var rec storage.GrammarRecord
		if err := json.Unmarshal(js, &rec); err != nil {
			return err
		}
		rec.Name = name
		r = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Storage) RemGrammar(ctx context.Context, name string) error {
	s.logf("RemGrammar %s", name)
	if s.db == nil {
		return NotOpen
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(grammarsBucket)
		if b.Get([]byte(name)) == nil {
			return storage.NotFound
		}
		return b.Delete([]byte(name))
	})
}

func (s *Storage) ListGrammars(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, NotOpen
	}

	acc := make([]string, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(grammarsBucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			acc = append(acc, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(acc)

	s.logf("ListGrammars found %d", len(acc))

	return acc, nil
}
