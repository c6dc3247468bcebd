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
	"fmt"
	"time"

	"github.com/czcorpus/cnc-gokit/datetime"
	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

const (
	dfltQueueCheckInterval = "10s"
	dfltQueueChunkSize     = 100
	dfltDocRemoveChannel   = "vitrina_remove_record"
	dfltSearchPageSize     = 20
	maxSearchPageSize      = 200
)

// Conf contains catalog indexer's configuration as obtained
// from a JSON file (or chunk). Please note that the
// instance should be treated as ready only after
// ValidateAndDefaults is called. Otherwise, it may
// provide incorrect or inconsistent data.
type Conf struct {

	// IndexDirPath specifies a directory where Bleve stores
	// its fulltext index data
	IndexDirPath string `json:"indexDirPath"`

	// DedupStateFilePath is a file where the state of indexing
	// deduplicator is stored on exit. If empty, the state is
	// kept in memory only.
	DedupStateFilePath string `json:"dedupStateFilePath"`

	// QueueCheckInterval is a string encoded (10s, 1m, 5m30s etc.)
	// interval specifying how often the indexer looks for new
	// records in the Redis indexing queue.
	QueueCheckInterval string `json:"queueCheckInterval"`

	// QueueChunkSize is the max. number of queued records
	// processed at once.
	QueueChunkSize int `json:"queueChunkSize"`

	// DocRemoveChannel is a Redis channel for record removal messages
	DocRemoveChannel string `json:"docRemoveChannel"`

	SearchPageSize int `json:"searchPageSize"`
}

func (conf *Conf) QueueCheckIntervalDur() time.Duration {
	dur, err := datetime.ParseDuration(conf.QueueCheckInterval)
	if err != nil {
		panic(err) // we expect users to call ValidateAndDefaults() which
		// checks for this too in a more graceful way so we can afford
		// to panic here
	}
	return dur
}

func (conf *Conf) ValidateAndDefaults() error {
	if conf == nil {
		return fmt.Errorf("missing `catalog` section")
	}
	if conf.IndexDirPath == "" {
		return fmt.Errorf("missing path to index dir (indexDirPath)")
	}
	isDir, err := fs.IsDir(conf.IndexDirPath)
	if err != nil {
		return err

	} else if !isDir {
		return fmt.Errorf("index dir does not exist (indexDirPath)")
	}
	if conf.QueueCheckInterval == "" {
		conf.QueueCheckInterval = dfltQueueCheckInterval
		log.Warn().
			Str("value", conf.QueueCheckInterval).
			Msg("catalog value `queueCheckInterval` not set, using default")
	}
	if dur, err := datetime.ParseDuration(conf.QueueCheckInterval); err != nil || dur == 0 {
		if err != nil {
			return fmt.Errorf("failed to validate queueCheckInterval: %w", err)
		}
		if dur == 0 {
			return fmt.Errorf("queueCheckInterval must be > 0")
		}
	}
	if conf.QueueChunkSize == 0 {
		conf.QueueChunkSize = dfltQueueChunkSize
		log.Warn().
			Int("value", conf.QueueChunkSize).
			Msg("catalog value `queueChunkSize` not set, using default")

	} else if conf.QueueChunkSize < 0 {
		return fmt.Errorf("queueChunkSize must be > 0")
	}
	if conf.DocRemoveChannel == "" {
		conf.DocRemoveChannel = dfltDocRemoveChannel
		log.Warn().
			Str("value", conf.DocRemoveChannel).
			Msg("catalog value `docRemoveChannel` not set, using default")
	}
	if conf.SearchPageSize == 0 {
		conf.SearchPageSize = dfltSearchPageSize

	} else if conf.SearchPageSize < 0 || conf.SearchPageSize > maxSearchPageSize {
		return fmt.Errorf("searchPageSize must be between 1 and %d", maxSearchPageSize)
	}
	return nil
}
