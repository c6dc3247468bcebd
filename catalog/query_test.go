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
	"testing"

	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/stretchr/testify/assert"
)

func TestBuildQueryEmpty(t *testing.T) {
	q, err := BuildQuery("  ", false)
	assert.NoError(t, err)
	assert.IsType(t, &query.MatchAllQuery{}, q)
	q, err = BuildQuery("", true)
	assert.NoError(t, err)
	assert.IsType(t, &query.MatchAllQuery{}, q)
}

func TestBuildQuerySimple(t *testing.T) {
	q, err := BuildQuery("title:krakatit", false)
	assert.NoError(t, err)
	assert.IsType(t, &query.QueryStringQuery{}, q)
}

func TestBuildQueryAdvanced(t *testing.T) {
	q, err := BuildQuery(`[author="Capek"]`, true)
	assert.NoError(t, err)
	conj, ok := q.(*query.ConjunctionQuery)
	assert.True(t, ok)
	if ok {
		assert.Len(t, conj.Conjuncts, 1)
	}
}

func TestBuildQueryAdvancedInvalid(t *testing.T) {
	_, err := BuildQuery(`[author="Capek"`, true)
	assert.Error(t, err)
}
