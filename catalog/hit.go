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
	"vitrina/thumbnail"

	"github.com/blevesearch/bleve/v2/search"
)

// Hit is a search result item providing access to the stored
// fields of a matching record.
type Hit struct {
	match *search.DocumentMatch
}

func (h *Hit) DocumentID() string {
	return h.match.ID
}

func (h *Hit) Score() float64 {
	return h.match.Score
}

func (h *Hit) values(field string) []any {
	switch tv := h.match.Fields[field].(type) {
	case nil:
		return []any{}
	case []any:
		return tv
	default:
		return []any{tv}
	}
}

// Has tests whether at least one of the fields has a stored
// non-blank value.
func (h *Hit) Has(spec thumbnail.FieldSpec) (bool, error) {
	for _, name := range spec.Names() {
		for _, v := range h.values(name) {
			if !thumbnail.IsBlank(v) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (h *Hit) First(field string) (any, error) {
	for _, v := range h.values(field) {
		if !thumbnail.IsBlank(v) {
			return v, nil
		}
	}
	return nil, nil
}

func (h *Hit) AllFields() map[string]any {
	return h.match.Fields
}

func NewHit(match *search.DocumentMatch) *Hit {
	return &Hit{match: match}
}

// HitsOf wraps all the hits of a search result.
func HitsOf(matches search.DocumentMatchCollection) []*Hit {
	ans := make([]*Hit, len(matches))
	for i, m := range matches {
		ans[i] = NewHit(m)
	}
	return ans
}
