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
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"vitrina/docstore"
	"vitrina/reporting"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/davecgh/go-spew/spew"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Indexer struct {
	conf      *Conf
	db        docstore.IMySQLOps
	rdb       *docstore.RedisAdapter
	bleveIdx  bleve.Index
	dedup     *Deduplicator
	reporting reporting.IReporting

	// mu guards the deduplicator (bloom filters are not safe
	// for concurrent use) and the stats. Indexing is called both
	// from the queue processing goroutine and from HTTP handlers.
	mu    sync.Mutex
	stats reporting.IndexerStats
}

// IndexRecentRecords takes latest `numLatest` records from
// the SQL database and (re)indexes them. It returns number of
// actually indexed records and possible error. Unindexable
// records and records already indexed in their current
// version are skipped.
func (idx *Indexer) IndexRecentRecords(numLatest int) (int, error) {
	results, err := idx.db.LoadRecentNRecords(numLatest)
	if err != nil {
		return 0, fmt.Errorf("failed to index records: %w", err)
	}
	var numIndexed int
	for _, rec := range results {
		indexed, err := idx.IndexRecord(rec, false)
		if !indexed && err == nil {
			continue

		} else if err != nil {
			log.Error().Err(err).Str("recordId", rec.ID).Msg("invalid record, skipping")
			continue
		}
		numIndexed++
	}
	return numIndexed, nil
}

// IndexRecord indexes a provided raw record. The returned bool
// specifies whether the record was indexed. It is OK if a record
// is not indexed and no error is returned - this happens for
// records without any usable data and for records we have already
// indexed in the same version (unless `force` is true).
func (idx *Indexer) IndexRecord(rec docstore.RawRecord, force bool) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !force && idx.dedup.TestRecord(rec) {
		log.Debug().Str("recordId", rec.ID).Msg("record already indexed, skipping")
		return false, nil
	}
	doc, err := RecToRecord(&rec)
	if err == ErrRecordNotIndexable {
		return false, nil

	} else if err != nil {
		return false, fmt.Errorf("failed to index record: %w", err)
	}
	docToIndex := doc.AsIndexable()
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		spew.Dump(docToIndex)
	}
	err = idx.bleveIdx.Index(doc.ID, docToIndex)
	if err != nil {
		return false, fmt.Errorf("failed to index record: %w", err)
	}
	idx.dedup.Add(rec)
	log.Debug().Str("recordId", doc.ID).Msg("indexed record")
	return true, nil
}

func (idx *Indexer) RemoveRecord(id string) error {
	if err := idx.bleveIdx.Delete(id); err != nil {
		return fmt.Errorf("failed to remove record %s from index: %w", id, err)
	}
	return nil
}

func (idx *Indexer) DocCount() (uint64, error) {
	return idx.bleveIdx.DocCount()
}

func (idx *Indexer) DataPath() string {
	return idx.conf.IndexDirPath
}

func (idx *Indexer) GetStats() reporting.IndexerStats {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.stats
}

// ResetDeduplicator forgets all the indexed record versions
// so the next indexing processes all the records again.
func (idx *Indexer) ResetDeduplicator() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.dedup.Reset()
}

// Search searches the index. The `page` argument starts from 1.
func (idx *Indexer) Search(q string, advanced bool, page int) (*bleve.SearchResult, error) {
	query, err := BuildQuery(q, advanced)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	if page < 1 {
		page = 1
	}
	size := idx.conf.SearchPageSize
	search := bleve.NewSearchRequestOptions(query, size, (page-1)*size, false)
	search.Fields = []string{"*"}
	return idx.bleveIdx.Search(search)
}

func (idx *Indexer) processQueue() {
	items, err := idx.rdb.NextNQueueItems(int64(idx.conf.QueueChunkSize))
	log.Debug().
		AnErr("error", err).
		Int("itemsToProcess", len(items)).
		Msg("doing regular queue check")
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch next queued chunk")
		return
	}
	var currStats reporting.IndexerStats
	for _, id := range items {
		currStats.NumFetched++
		rec, err := idx.rdb.GetRecord(id)
		if err == docstore.ErrRecordNotFound {
			rec, err = idx.db.LoadRecordByID(id)
		}
		if err != nil {
			log.Error().
				Err(err).
				Str("recordId", id).
				Msg("failed to get queued record, skipping")
			currStats.NumErrors++
			continue
		}
		indexed, err := idx.IndexRecord(rec, false)
		if err != nil {
			log.Error().
				Err(err).
				Str("recordId", id).
				Msg("failed to index queued record, skipping")
			currStats.NumErrors++

		} else if indexed {
			currStats.NumIndexed++

		} else {
			currStats.NumSkipped++
		}
	}
	idx.finishStats(currStats)
}

func (idx *Indexer) handleRemoveMsg(msg *redis.Message) {
	var item docstore.RemoveMsg
	if err := json.Unmarshal([]byte(msg.Payload), &item); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal next record removal item")
		return
	}
	var currStats reporting.IndexerStats
	log.Debug().Str("recordId", item.RecordID).Msg("about to remove record from Bleve index")
	if err := idx.RemoveRecord(item.RecordID); err != nil {
		log.Error().Err(err).Str("recordId", item.RecordID).Msg("failed to remove record")
		currStats.NumErrors++

	} else {
		currStats.NumRemoved++
	}
	idx.finishStats(currStats)
}

func (idx *Indexer) finishStats(currStats reporting.IndexerStats) {
	if !currStats.ShowsActivity() {
		return
	}
	log.Info().
		Int("numFetched", currStats.NumFetched).
		Int("numIndexed", currStats.NumIndexed).
		Int("numSkipped", currStats.NumSkipped).
		Int("numRemoved", currStats.NumRemoved).
		Int("numErrors", currStats.NumErrors).
		Msg("regular indexing report")
	idx.mu.Lock()
	idx.stats.UpdateBy(currStats)
	idx.mu.Unlock()
	idx.reporting.WriteIndexerStatus(currStats)
}

// Start runs the processing of Redis indexing queue and
// the record removal channel in a background goroutine.
func (idx *Indexer) Start(ctx context.Context) {
	ticker := time.NewTicker(idx.conf.QueueCheckIntervalDur())
	rmChan := idx.rdb.ChannelSubscribe(idx.conf.DocRemoveChannel)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("about to close Indexer")
				return
			case <-ticker.C:
				idx.processQueue()
			case msg, ok := <-rmChan:
				if !ok {
					log.Warn().Msg("record removal channel closed")
					rmChan = nil
					continue
				}
				idx.handleRemoveMsg(msg)
			}
		}
	}()
}

// Stop stores the deduplicator state and closes the index
func (idx *Indexer) Stop(ctx context.Context) error {
	log.Warn().Msg("stopping Indexer")
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.dedup.OnClose(); err != nil {
		return fmt.Errorf("failed to stop Indexer properly: %w", err)
	}
	if err := idx.bleveIdx.Close(); err != nil {
		return fmt.Errorf("failed to stop Indexer properly: %w", err)
	}
	return nil
}

func NewIndexer(
	conf *Conf,
	db docstore.IMySQLOps,
	rdb *docstore.RedisAdapter,
	rep reporting.IReporting,
) (*Indexer, error) {
	bleveIdx, err := bleve.Open(conf.IndexDirPath)
	if err == bleve.ErrorIndexMetaMissing || err == bleve.ErrorIndexPathDoesNotExist {
		var idxMapping mapping.IndexMapping
		idxMapping, err = CreateMapping()
		if err != nil {
			return nil, fmt.Errorf("failed to create new index: %w", err)
		}
		bleveIdx, err = bleve.New(conf.IndexDirPath, idxMapping)
		if err != nil {
			return nil, fmt.Errorf("failed to create new index: %w", err)
		}

	} else if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	dedup, err := NewDeduplicator(conf.DedupStateFilePath)
	if err != nil {
		return nil, err
	}
	return &Indexer{
		conf:      conf,
		db:        db,
		rdb:       rdb,
		bleveIdx:  bleveIdx,
		dedup:     dedup,
		reporting: rep,
	}, nil
}
