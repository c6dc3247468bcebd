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

package reporting

import (
	"context"
	"time"

	"github.com/czcorpus/hltscl"
	"github.com/rs/zerolog/log"
)

/*
Expected tables:

create table vitrina_indexer_stats (
  "time" timestamp with time zone NOT NULL,
  num_fetched int,
  num_indexed int,
  num_skipped int,
  num_removed int,
  num_errors int
);

select create_hypertable('vitrina_indexer_stats', 'time');

create table vitrina_render_stats (
  "time" timestamp with time zone NOT NULL,
  num_documents int,
  num_rendered int,
  num_absent int,
  num_errors int,
  num_cancelled int,
  proc_time_ms int
);

select create_hypertable('vitrina_render_stats', 'time');

*/

type tableChans struct {
	writer *hltscl.TableWriter
	dataCh chan<- hltscl.Entry
	errCh  <-chan hltscl.WriteError
}

// StatusWriter writes indexer and rendering statistics to TimescaleDB
type StatusWriter struct {
	indexer  tableChans
	render   tableChans
	location *time.Location
	onError  func(err error)
}

func (job *StatusWriter) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("about to close StatusWriter")
				return
			case err := <-job.indexer.errCh:
				job.handleError(err)
			case err := <-job.render.errCh:
				job.handleError(err)
			}
		}
	}()
}

func (job *StatusWriter) handleError(err hltscl.WriteError) {
	log.Error().
		Err(err.Err).
		Str("entry", err.Entry.String()).
		Msg("error writing data to TimescaleDB")
	if job.onError != nil {
		job.onError(err.Err)
	}
}

func (job *StatusWriter) Stop(ctx context.Context) error {
	log.Warn().Msg("stopping StatusWriter")
	return nil
}

func (job *StatusWriter) WriteIndexerStatus(item IndexerStats) {
	job.indexer.dataCh <- *job.indexer.writer.NewEntry(time.Now().In(job.location)).
		Int("num_fetched", item.NumFetched).
		Int("num_indexed", item.NumIndexed).
		Int("num_skipped", item.NumSkipped).
		Int("num_removed", item.NumRemoved).
		Int("num_errors", item.NumErrors)
}

func (job *StatusWriter) WriteRenderStatus(item RenderStats) {
	job.render.dataCh <- *job.render.writer.NewEntry(time.Now().In(job.location)).
		Int("num_documents", item.NumDocuments).
		Int("num_rendered", item.NumRendered).
		Int("num_absent", item.NumAbsent).
		Int("num_errors", item.NumErrors).
		Int("num_cancelled", item.NumCancelled).
		Int("proc_time_ms", int(item.ProcTimeMs))
}

func NewStatusWriter(conf hltscl.PgConf, tz *time.Location, onError func(err error)) (*StatusWriter, error) {
	conn, err := hltscl.CreatePool(conf)
	if err != nil {
		return nil, err
	}
	ans := &StatusWriter{
		location: tz,
		onError:  onError,
	}
	ans.indexer.writer = hltscl.NewTableWriter(conn, "vitrina_indexer_stats", "time", tz)
	ans.indexer.dataCh, ans.indexer.errCh = ans.indexer.writer.Activate()
	ans.render.writer = hltscl.NewTableWriter(conn, "vitrina_render_stats", "time", tz)
	ans.render.dataCh, ans.render.errCh = ans.render.writer.Activate()
	return ans, nil
}
