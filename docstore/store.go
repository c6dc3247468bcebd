// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docstore

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Store combines the Redis buffer of recent records with
// the persistent MySQL storage.
type Store struct {
	rdb *RedisAdapter
	db  IMySQLOps
}

// LoadRecord looks for a record in Redis first and then
// falls back to the SQL database.
func (s *Store) LoadRecord(id string) (RawRecord, error) {
	rec, err := s.rdb.GetRecord(id)
	if err == ErrRecordNotFound {
		log.Debug().Str("recordId", id).Msg("record not in Redis, trying SQL database")
		return s.db.LoadRecordByID(id)

	} else if err != nil {
		return RawRecord{}, fmt.Errorf("failed to load record %s: %w", id, err)
	}
	return rec, nil
}

// SaveRecord stores a record persistently and queues it for indexing.
func (s *Store) SaveRecord(rec RawRecord) error {
	exists, err := s.db.ContainsRecord(rec.ID)
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
	}
	if exists {
		if err := s.db.RemoveRecordByID(rec.ID); err != nil {
			return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
		}
	}
	if err := s.db.InsertRecord(rec); err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
	}
	if err := s.rdb.StoreRecord(rec); err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
	}
	return nil
}

// RemoveRecord removes a record from both storages and publishes
// the removal to `chname` so the fulltext index can follow.
func (s *Store) RemoveRecord(id, chname string) error {
	if err := s.db.RemoveRecordByID(id); err != nil {
		return fmt.Errorf("failed to remove record %s: %w", id, err)
	}
	if err := s.rdb.DeleteRecord(id); err != nil {
		return fmt.Errorf("failed to remove record %s: %w", id, err)
	}
	if err := s.rdb.PublishRemoval(chname, id); err != nil {
		return fmt.Errorf("failed to remove record %s: %w", id, err)
	}
	log.Debug().Str("recordId", id).Msg("published record removal")
	return nil
}

// Reindex puts an existing record to the indexing queue.
// This also works for records stored in the SQL database only.
func (s *Store) Reindex(id string) error {
	if _, err := s.LoadRecord(id); err != nil {
		return err
	}
	if err := s.rdb.EnqueueForIndexing(id); err != nil {
		return fmt.Errorf("failed to reindex record %s: %w", id, err)
	}
	return nil
}

func (s *Store) Redis() *RedisAdapter {
	return s.rdb
}

func NewStore(rdb *RedisAdapter, db IMySQLOps) *Store {
	return &Store{
		rdb: rdb,
		db:  db,
	}
}
