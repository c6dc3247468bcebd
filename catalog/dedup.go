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

package catalog

import (
	"crypto/sha1"
	"fmt"
	"os"
	"vitrina/docstore"

	"github.com/bits-and-blooms/bloom"
	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

const (
	bloomFilterNumBits       = 1000000
	bloomFilterProbCollision = 0.01
)

// Deduplicator keeps track of already indexed record versions
// so the indexer does not have to reindex records which have
// not changed since the last time. As it is based on a Bloom filter,
// a false positive may occur (i.e. a changed record is not reindexed)
// with a low probability. Such records can be still indexed with
// the `force` flag.
type Deduplicator struct {
	items           *bloom.BloomFilter
	storageFilePath string
}

func (dd *Deduplicator) mkKey(rec docstore.RawRecord) string {
	return fmt.Sprintf("%x", sha1.Sum([]byte(rec.ID+"\x00"+rec.Data)))
}

func (dd *Deduplicator) StoreToDisk() error {
	if dd.storageFilePath == "" {
		return nil
	}
	f, err := os.OpenFile(dd.storageFilePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to store deduplicator state to disk: %w", err)
	}
	defer f.Close()
	_, err = dd.items.WriteTo(f)
	if err != nil {
		return fmt.Errorf("failed to store deduplicator state to disk: %w", err)
	}
	return nil
}

func (dd *Deduplicator) OnClose() error {
	return dd.StoreToDisk()
}

func (dd *Deduplicator) LoadFromDisk() error {
	f, err := os.Open(dd.storageFilePath)
	if err != nil {
		return fmt.Errorf("failed to load deduplicator state from disk: %w", err)
	}
	defer f.Close()
	_, err = dd.items.ReadFrom(f)
	if err != nil {
		return fmt.Errorf("failed to load deduplicator state from disk: %w", err)
	}
	return nil
}

// Add marks the record's current version as indexed
func (dd *Deduplicator) Add(rec docstore.RawRecord) {
	dd.items.AddString(dd.mkKey(rec))
}

// TestRecord tests whether the record's current version
// has been (most likely) already indexed.
func (dd *Deduplicator) TestRecord(rec docstore.RawRecord) bool {
	return dd.items.TestString(dd.mkKey(rec))
}

func (dd *Deduplicator) Reset() {
	log.Warn().Msg("performing deduplicator reset")
	dd.items.ClearAll()
}

func NewDeduplicator(stateFilePath string) (*Deduplicator, error) {
	filter := bloom.NewWithEstimates(bloomFilterNumBits, bloomFilterProbCollision)
	d := &Deduplicator{
		items:           filter,
		storageFilePath: stateFilePath,
	}
	if stateFilePath == "" {
		return d, nil
	}
	isf, err := fs.IsFile(stateFilePath)
	if err != nil {
		return d, fmt.Errorf("failed to init Deduplicator: %w", err)
	}
	if isf {
		if err := d.LoadFromDisk(); err != nil {
			return d, fmt.Errorf("failed to init Deduplicator: %w", err)
		}
		log.Info().Str("file", stateFilePath).Msg("loaded previously stored dedup. state")
	}
	return d, nil
}
