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
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	dfltRedisPort      = 6379
	dfltMySQLPort      = 3306
	dfltPoolSize       = 10
	dfltQueueKey       = "vitrina_index_queue"
	dfltRecordsKeyPfx  = "catalog"
)

type RedisConf struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DB       int    `json:"db"`
	Password string `json:"password"`

	// QueueKey is a Redis list where IDs of records
	// waiting for indexing are stored
	QueueKey string `json:"queueKey"`

	// RecordKeyPrefix is used to create record keys
	// in the form [prefix]:[record ID]
	RecordKeyPrefix string `json:"recordKeyPrefix"`
}

func (conf *RedisConf) ValidateAndDefaults() error {
	if conf == nil {
		return fmt.Errorf("missing `redis` section")
	}
	if conf.Host == "" {
		return fmt.Errorf("missing Redis host (redis.host)")
	}
	if conf.Port == 0 {
		conf.Port = dfltRedisPort
		log.Warn().Int("value", conf.Port).Msg("redis value `port` not set, using default")
	}
	if conf.QueueKey == "" {
		conf.QueueKey = dfltQueueKey
		log.Warn().Str("value", conf.QueueKey).Msg("redis value `queueKey` not set, using default")
	}
	if conf.RecordKeyPrefix == "" {
		conf.RecordKeyPrefix = dfltRecordsKeyPfx
		log.Warn().
			Str("value", conf.RecordKeyPrefix).
			Msg("redis value `recordKeyPrefix` not set, using default")
	}
	return nil
}

// ------

type DBConf struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Name     string `json:"name"`
	User     string `json:"user"`
	Password string `json:"password"`
	PoolSize int    `json:"poolSize"`

	// Table is the name of the table containing catalog records.
	// The table is expected to have columns id, data, created.
	Table string `json:"table"`
}

func (conf *DBConf) ValidateAndDefaults() error {
	if conf == nil {
		return fmt.Errorf("missing `db` section")
	}
	if conf.Host == "" || conf.Name == "" || conf.User == "" {
		return fmt.Errorf("incomplete `db` section (host, name and user are required)")
	}
	if conf.Port == 0 {
		conf.Port = dfltMySQLPort
		log.Warn().Int("value", conf.Port).Msg("db value `port` not set, using default")
	}
	if conf.PoolSize == 0 {
		conf.PoolSize = dfltPoolSize
		log.Warn().Int("value", conf.PoolSize).Msg("db value `poolSize` not set, using default")
	}
	if conf.Table == "" {
		return fmt.Errorf("missing catalog records table name (db.table)")
	}
	return nil
}
