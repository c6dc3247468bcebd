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
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/czcorpus/cqlizer/cql"
)

var (
	ErrEmptyAdvancedQuery = errors.New("advanced query contains no searchable attributes")
)

type fieldValue struct {
	field string
	value string
}

func (fv fieldValue) key() string {
	return fv.field + "\x00" + fv.value
}

// extractFieldValues parses a CQL query and returns all the attribute-value
// pairs found within. Structural attributes are taken by their name only
// (i.e. `within <doc author="x" />` and `[author="x"]` are the same for us).
// Positional attributes without a name search all the fields.
func extractFieldValues(q string) ([]fieldValue, error) {
	parsed, err := cql.ParseCQL("query", q)
	if err != nil {
		return []fieldValue{}, fmt.Errorf("failed to parse advanced query: %w", err)
	}
	used := collections.NewSet[string]()
	byKey := make(map[string]fieldValue)
	for _, prop := range parsed.ExtractProps() {
		if !prop.IsStructAttr() && !prop.IsPosattr() {
			continue
		}
		fv := fieldValue{field: prop.Name, value: prop.Value}
		if strings.TrimSpace(fv.value) == "" {
			continue
		}
		used.Add(fv.key())
		byKey[fv.key()] = fv
	}
	keys := used.ToSlice()
	sort.Strings(keys)
	ans := make([]fieldValue, len(keys))
	for i, k := range keys {
		ans[i] = byKey[k]
	}
	return ans, nil
}

// BuildQuery creates a Bleve query out of a user query. In case advanced
// is true, the query is expected to be CQL and all the attributes used within
// are translated into a conjunction of field match queries. Otherwise,
// Bleve's query string syntax is used. An empty query matches all the records.
func BuildQuery(q string, advanced bool) (query.Query, error) {
	if strings.TrimSpace(q) == "" {
		return bleve.NewMatchAllQuery(), nil
	}
	if !advanced {
		return bleve.NewQueryStringQuery(q), nil
	}
	fvals, err := extractFieldValues(q)
	if err != nil {
		return nil, err
	}
	if len(fvals) == 0 {
		return nil, ErrEmptyAdvancedQuery
	}
	conj := make([]query.Query, len(fvals))
	for i, fv := range fvals {
		mq := bleve.NewMatchQuery(fv.value)
		if fv.field != "" {
			mq.SetField(fv.field)
		}
		conj[i] = mq
	}
	return bleve.NewConjunctionQuery(conj...), nil
}
