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
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"
)

const (
	AnalyzerName = "catalog_analyzer"
)

// CreateMapping creates a mapping for catalog records. As catalog
// sources differ in their fields, the record mapping is dynamic
// (all fields are indexed and stored) with the exception of
// record metadata.
func CreateMapping() (mapping.IndexMapping, error) {

	// field types
	exactStringMapping := bleve.NewKeywordFieldMapping()
	dtMapping := bleve.NewDateTimeFieldMapping()

	// whole index
	indexMapping := bleve.NewIndexMapping()
	err := indexMapping.AddCustomAnalyzer(
		AnalyzerName,
		map[string]any{
			"type":          custom.Name,
			"tokenizer":     TokenizerName,
			"token_filters": []string{lowercase.Name},
		},
	)
	if err != nil {
		return nil, err
	}
	indexMapping.DefaultAnalyzer = AnalyzerName

	// record type
	recMapping := bleve.NewDocumentMapping()
	recMapping.AddFieldMappingsAt(idField, exactStringMapping)
	recMapping.AddFieldMappingsAt(createdField, dtMapping)

	indexMapping.DefaultMapping = recMapping
	return indexMapping, nil
}
