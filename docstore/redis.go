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
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RemoveMsg is a message published to a record removal channel.
type RemoveMsg struct {
	RecordID string `json:"recordId"`
}

type RedisAdapter struct {
	conf  *RedisConf
	redis *redis.Client
	ctx   context.Context
}

func (rd *RedisAdapter) String() string {
	if rd.redis == nil {
		return fmt.Sprintf(
			"RedisAdapter (inactive), address %s:%d, db %d",
			rd.conf.Host, rd.conf.Port, rd.conf.DB,
		)
	}
	return fmt.Sprintf(
		"RedisAdapter (active) address %s:%d, db %d",
		rd.conf.Host, rd.conf.Port, rd.conf.DB,
	)
}

func (rd *RedisAdapter) TriggerChan(chname, value string) error {
	return rd.redis.Publish(rd.ctx, chname, value).Err()
}

// PublishRemoval asks subscribed services to remove a record
// (e.g. from the fulltext index).
func (rd *RedisAdapter) PublishRemoval(chname, recordID string) error {
	msg, err := json.Marshal(RemoveMsg{RecordID: recordID})
	if err != nil {
		return fmt.Errorf("failed to publish removal of %s: %w", recordID, err)
	}
	return rd.TriggerChan(chname, string(msg))
}

// ChannelSubscribe subscribe to a Redis channel with a specified name.
func (rd *RedisAdapter) ChannelSubscribe(name string) <-chan *redis.Message {
	sub := rd.redis.Subscribe(rd.ctx, name)
	return sub.Channel()
}

func (rd *RedisAdapter) mkKey(id string) string {
	return fmt.Sprintf("%s:%s", rd.conf.RecordKeyPrefix, id)
}

// GetRecord returns a catalog record with a specified ID.
// In case no such record is found, ErrRecordNotFound is returned.
func (rd *RedisAdapter) GetRecord(id string) (RawRecord, error) {
	ans := rd.redis.Get(rd.ctx, rd.mkKey(id))
	if ans.Err() == redis.Nil {
		return RawRecord{}, ErrRecordNotFound
	}
	if ans.Err() != nil {
		return RawRecord{}, fmt.Errorf("failed to get catalog record: %w", ans.Err())
	}
	var rec RawRecord
	if err := json.Unmarshal([]byte(ans.Val()), &rec); err != nil {
		return RawRecord{}, fmt.Errorf("failed to decode catalog record %s: %w", id, err)
	}
	return rec, nil
}

// StoreRecord stores a record and puts its ID to the indexing queue.
func (rd *RedisAdapter) StoreRecord(rec RawRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to store record %s: %w", rec.ID, err)
	}
	ppl := rd.redis.TxPipeline()
	ppl.Set(rd.ctx, rd.mkKey(rec.ID), string(data), 0)
	ppl.RPush(rd.ctx, rd.conf.QueueKey, rec.ID)
	if _, err := ppl.Exec(rd.ctx); err != nil {
		return fmt.Errorf("failed to store record %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteRecord removes a buffered record. A missing
// record is not considered an error.
func (rd *RedisAdapter) DeleteRecord(id string) error {
	if err := rd.redis.Del(rd.ctx, rd.mkKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete catalog record %s: %w", id, err)
	}
	return nil
}

// EnqueueForIndexing adds record IDs to the indexing queue.
func (rd *RedisAdapter) EnqueueForIndexing(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	vals := make([]any, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	if err := rd.redis.RPush(rd.ctx, rd.conf.QueueKey, vals...).Err(); err != nil {
		return fmt.Errorf("failed to enqueue records for indexing: %w", err)
	}
	return nil
}

// NextNQueueItems fetches (and removes) up to n items from
// the beginning of the indexing queue (RPUSH is expected to be
// used to add new items on the other side).
func (rd *RedisAdapter) NextNQueueItems(n int64) ([]string, error) {
	ppl := rd.redis.TxPipeline()
	lrangeCmd := ppl.LRange(rd.ctx, rd.conf.QueueKey, 0, n-1)
	ppl.LTrim(rd.ctx, rd.conf.QueueKey, n, -1)
	_, err := ppl.Exec(rd.ctx)
	if err != nil {
		return []string{}, fmt.Errorf("failed to get items from queue: %w", err)
	}
	items, err := lrangeCmd.Result()
	if err != nil {
		return []string{}, fmt.Errorf("failed to get items from queue: %w", err)
	}
	return items, nil
}

func (rd *RedisAdapter) QueueLength() (int64, error) {
	cmd := rd.redis.LLen(rd.ctx, rd.conf.QueueKey)
	if cmd.Err() != nil {
		return 0, fmt.Errorf("failed to determine queue length: %w", cmd.Err())
	}
	return cmd.Val(), nil
}

func (rd *RedisAdapter) Ping() error {
	ctx, cancel := context.WithTimeout(rd.ctx, 3*time.Second)
	defer cancel()
	return rd.redis.Ping(ctx).Err()
}

func NewRedisAdapter(ctx context.Context, conf *RedisConf) *RedisAdapter {
	ans := &RedisAdapter{
		conf: conf,
		redis: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
			Password: conf.Password,
			DB:       conf.DB,
		}),
		ctx: ctx,
	}
	return ans
}
