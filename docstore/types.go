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

package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRecordNotFound = errors.New("record not found")
)

// GeneralDataRecord is a decoded catalog record. Internally it is just
// a key-value map as catalog sources differ in what they provide.
type GeneralDataRecord map[string]any

// GetID returns record's identifier or an empty string
// if the record has none (or it is not a string).
func (rec GeneralDataRecord) GetID() string {
	v, ok := rec["id"]
	if !ok {
		return ""
	}
	typedV, ok := v.(string)
	if !ok {
		return ""
	}
	return typedV
}

// ----------------------------------

// RawRecord is a representation of a raw Redis (or MariaDB) catalog
// record. The type holds record's unparsed JSON data along with ID
// and creation time.
type RawRecord struct {
	ID      string    `json:"id"`
	Data    string    `json:"data"`
	Created time.Time `json:"created"`
}

// FetchData parses raw JSON data.
func (rec RawRecord) FetchData() (GeneralDataRecord, error) {
	ans := make(GeneralDataRecord)
	err := json.Unmarshal([]byte(rec.Data), &ans)
	if err != nil {
		return GeneralDataRecord{}, fmt.Errorf("failed to fetch RawRecord data: %w", err)
	}
	return ans, nil
}

// NewRawRecord creates a new record out of JSON-encoded data.
// In case the data do not contain a usable `id`, a new
// UUID-based one is generated and written into the data.
func NewRawRecord(data []byte, created time.Time) (RawRecord, error) {
	rec := make(GeneralDataRecord)
	if err := json.Unmarshal(data, &rec); err != nil {
		return RawRecord{}, fmt.Errorf("failed to create new record: %w", err)
	}
	id := strings.TrimSpace(rec.GetID())
	if id == "" {
		id = uuid.New().String()
	}
	rec["id"] = id
	normData, err := json.Marshal(rec)
	if err != nil {
		return RawRecord{}, fmt.Errorf("failed to create new record: %w", err)
	}
	return RawRecord{
		ID:      id,
		Data:    string(normData),
		Created: created,
	}, nil
}

// ----------------------------------

type IMySQLOps interface {
	LoadRecentNRecords(num int) ([]RawRecord, error)
	LoadRecordByID(id string) (RawRecord, error)
	ContainsRecord(id string) (bool, error)
	InsertRecord(rec RawRecord) error
	RemoveRecordByID(id string) error
}
