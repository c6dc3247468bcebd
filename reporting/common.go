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
)

// IndexerStats describes a single run of the indexing queue processing
type IndexerStats struct {
	NumFetched int `json:"numFetched"`
	NumIndexed int `json:"numIndexed"`
	NumSkipped int `json:"numSkipped"`
	NumRemoved int `json:"numRemoved"`
	NumErrors  int `json:"numErrors"`
}

func (bgs *IndexerStats) UpdateBy(other IndexerStats) {
	bgs.NumFetched += other.NumFetched
	bgs.NumIndexed += other.NumIndexed
	bgs.NumSkipped += other.NumSkipped
	bgs.NumRemoved += other.NumRemoved
	bgs.NumErrors += other.NumErrors
}

func (bgs *IndexerStats) ShowsActivity() bool {
	return bgs.NumFetched+bgs.NumIndexed+bgs.NumSkipped+bgs.NumRemoved+bgs.NumErrors > 0
}

// ------------

// RenderStats describes rendering of a single page of results
type RenderStats struct {
	View         string `json:"view"`
	NumDocuments int    `json:"numDocuments"`
	NumRendered  int    `json:"numRendered"`
	NumAbsent    int    `json:"numAbsent"`
	NumErrors    int    `json:"numErrors"`

	// NumCancelled counts documents not rendered because
	// rendering of another document failed
	NumCancelled int   `json:"numCancelled"`
	ProcTimeMs   int64 `json:"procTimeMs"`
}

// ------------

type IReporting interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	WriteIndexerStatus(item IndexerStats)
	WriteRenderStatus(item RenderStats)
}
