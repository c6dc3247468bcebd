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
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	maxRecentRecords = 1000
)

func DBOpen(conf *DBConf) (*sql.DB, error) {
	mconf := mysql.NewConfig()
	mconf.Net = "tcp"
	mconf.Addr = fmt.Sprintf("%s:%d", conf.Host, conf.Port)
	mconf.User = conf.User
	mconf.Passwd = conf.Password
	mconf.DBName = conf.Name
	mconf.ParseTime = true
	mconf.Loc = time.Local
	mconf.Params = map[string]string{"autocommit": "true"}
	db, err := sql.Open("mysql", mconf.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open sql database: %w", err)
	}
	db.SetMaxOpenConns(conf.PoolSize)
	return db, nil
}

func generateRows(sqlRows *sql.Rows, expectedSize int) ([]RawRecord, error) {
	defer sqlRows.Close()
	ans := make([]RawRecord, 0, expectedSize)
	for sqlRows.Next() {
		var item RawRecord
		err := sqlRows.Scan(&item.ID, &item.Data, &item.Created)
		if err != nil {
			return []RawRecord{}, fmt.Errorf("failed to load records: %w", err)
		}
		ans = append(ans, item)
	}
	return ans, nil
}

// MySQLOps provides access to persistent catalog records.
type MySQLOps struct {
	db    *sql.DB
	table string
	tz    *time.Location
}

func (ops *MySQLOps) LoadRecentNRecords(num int) ([]RawRecord, error) {
	if num > maxRecentRecords {
		panic(fmt.Sprintf("cannot load more than %d records at a time", maxRecentRecords))
	}
	rows, err := ops.db.Query(
		fmt.Sprintf(
			"SELECT id, data, created FROM %s ORDER BY created DESC LIMIT ?",
			ops.table,
		),
		num,
	)
	if err != nil {
		return []RawRecord{}, fmt.Errorf("failed to load recent records: %w", err)
	}
	return generateRows(rows, num)
}

// LoadRecordByID loads a record with a specified ID. In case
// there is no such record, ErrRecordNotFound is returned.
func (ops *MySQLOps) LoadRecordByID(id string) (RawRecord, error) {
	row := ops.db.QueryRow(
		fmt.Sprintf("SELECT id, data, created FROM %s WHERE id = ?", ops.table), id)
	var ans RawRecord
	if err := row.Scan(&ans.ID, &ans.Data, &ans.Created); err != nil {
		if err == sql.ErrNoRows {
			return RawRecord{}, ErrRecordNotFound
		}
		return RawRecord{}, fmt.Errorf("failed to get record with id %s: %w", id, err)
	}
	return ans, nil
}

func (ops *MySQLOps) ContainsRecord(id string) (bool, error) {
	row := ops.db.QueryRow(
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ? LIMIT 1", ops.table), id)
	if row.Err() != nil {
		return false, fmt.Errorf("failed to test existence of record %s: %w", id, row.Err())
	}
	var ans bool
	if err := row.Scan(&ans); err != nil {
		return false, fmt.Errorf("failed to test existence of record %s: %w", id, err)
	}
	return ans, nil
}

func (ops *MySQLOps) InsertRecord(rec RawRecord) error {
	created := rec.Created
	if created.IsZero() {
		created = time.Now().In(ops.tz)
	}
	_, err := ops.db.Exec(
		fmt.Sprintf("INSERT INTO %s (id, data, created) VALUES (?, ?, ?)", ops.table),
		rec.ID, rec.Data, created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert catalog record: %w", err)
	}
	return nil
}

func (ops *MySQLOps) RemoveRecordByID(id string) error {
	_, err := ops.db.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", ops.table), id)
	if err != nil {
		return fmt.Errorf("failed to remove record with id %s: %w", id, err)
	}
	return nil
}

func NewMySQLOps(db *sql.DB, table string, tz *time.Location) *MySQLOps {
	return &MySQLOps{
		db:    db,
		table: table,
		tz:    tz,
	}
}
