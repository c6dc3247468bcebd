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

// DummySQL is a testing implementation of IMySQLOps
// keeping records in memory.
type DummySQL struct {
	Records []RawRecord
}

func (dsql *DummySQL) LoadRecentNRecords(num int) ([]RawRecord, error) {
	if num > len(dsql.Records) {
		num = len(dsql.Records)
	}
	ans := make([]RawRecord, num)
	copy(ans, dsql.Records[:num])
	return ans, nil
}

func (dsql *DummySQL) LoadRecordByID(id string) (RawRecord, error) {
	for _, rec := range dsql.Records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return RawRecord{}, ErrRecordNotFound
}

func (dsql *DummySQL) ContainsRecord(id string) (bool, error) {
	_, err := dsql.LoadRecordByID(id)
	return err == nil, nil
}

func (dsql *DummySQL) InsertRecord(rec RawRecord) error {
	dsql.Records = append(dsql.Records, rec)
	return nil
}

func (dsql *DummySQL) RemoveRecordByID(id string) error {
	for i, rec := range dsql.Records {
		if rec.ID == id {
			dsql.Records = append(dsql.Records[:i], dsql.Records[i+1:]...)
			return nil
		}
	}
	return nil
}
