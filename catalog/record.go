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
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"vitrina/docstore"
	"vitrina/thumbnail"
)

const (
	idField      = "id"
	createdField = "created"
)

var (
	ErrRecordNotIndexable = errors.New("record not indexable")
)

// Record is a catalog record intended for fulltext indexing
// and for rendering in search results. All the field values
// are normalized to lists of strings.
type Record struct {
	ID      string              `json:"id"`
	Created time.Time           `json:"created"`
	Fields  map[string][]string `json:"fields"`
}

func (rec *Record) DocumentID() string {
	return rec.ID
}

// Has tests whether at least one of the fields contains a non-blank
// value (see thumbnail.IsBlank).
func (rec *Record) Has(spec thumbnail.FieldSpec) (bool, error) {
	for _, name := range spec.Names() {
		for _, v := range rec.Fields[name] {
			if !thumbnail.IsBlank(v) {
				return true, nil
			}
		}
	}
	return false, nil
}

// First returns the first non-blank value of a field or nil
func (rec *Record) First(field string) (any, error) {
	for _, v := range rec.Fields[field] {
		if !thumbnail.IsBlank(v) {
			return v, nil
		}
	}
	return nil, nil
}

// FieldNames returns sorted names of all the record's fields
func (rec *Record) FieldNames() []string {
	ans := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		ans = append(ans, k)
	}
	sort.Strings(ans)
	return ans
}

func (rec *Record) AllFields() map[string]any {
	ans := make(map[string]any, len(rec.Fields)+2)
	for k, v := range rec.Fields {
		ans[k] = v
	}
	ans[idField] = rec.ID
	ans[createdField] = rec.Created
	return ans
}

// AsIndexable returns a flat representation of the record Bleve
// is able to index. Record metadata (id, created) overwrite possible
// data fields of the same name.
func (rec *Record) AsIndexable() map[string]any {
	ans := make(map[string]any, len(rec.Fields)+2)
	for k, v := range rec.Fields {
		if len(v) == 1 {
			ans[k] = v[0]

		} else {
			ans[k] = v
		}
	}
	ans[idField] = rec.ID
	ans[createdField] = rec.Created
	return ans
}

func stringifyValue(v any) (string, bool) {
	switch tv := v.(type) {
	case nil:
		return "", false
	case string:
		return tv, true
	case bool, float64, json.Number:
		return fmt.Sprint(tv), true
	}
	return "", false
}

func normalizeValues(v any) []string {
	if items, ok := v.([]any); ok {
		ans := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := stringifyValue(item); ok {
				ans = append(ans, s)
			}
		}
		return ans
	}
	if s, ok := stringifyValue(v); ok {
		return []string{s}
	}
	return []string{}
}

// RecToRecord converts a raw stored record into Record.
// Nested objects within the record data are ignored.
func RecToRecord(rrec *docstore.RawRecord) (*Record, error) {
	data, err := rrec.FetchData()
	if err != nil {
		return nil, fmt.Errorf("failed to convert raw record: %w", err)
	}
	id := strings.TrimSpace(rrec.ID)
	if id == "" {
		id = data.GetID()
	}
	if id == "" {
		return nil, ErrRecordNotIndexable
	}
	ans := &Record{
		ID:      id,
		Created: rrec.Created,
		Fields:  make(map[string][]string, len(data)),
	}
	for k, v := range data {
		if k == idField {
			continue
		}
		if _, isObj := v.(map[string]any); isObj {
			continue
		}
		ans.Fields[k] = normalizeValues(v)
	}
	if len(ans.Fields) == 0 {
		return nil, ErrRecordNotIndexable
	}
	return ans, nil
}
