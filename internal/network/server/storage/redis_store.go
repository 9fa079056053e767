package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	roomKeyPrefix = "room:"
	roomIndexKey  = "rooms:index"

	roomExpiration = 2 * time.Hour
)

// RoomRecord is the serialized shape of a room, enough to survive a
// restart for lobby listings and diagnostics.
type RoomRecord struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	OwnerID   string         `json:"owner_id"`
	IsPrivate bool           `json:"is_private"`
	State     string         `json:"state"`
	DeckSize  int            `json:"deck_size"`
	Players   []PlayerRecord `json:"players"`
	CreatedAt int64          `json:"created_at"`
}

// PlayerRecord is one seat inside a RoomRecord.
type PlayerRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	Ready bool   `json:"ready"`
}

// RedisStore persists room records.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SaveRoom writes a room record and indexes its id.
func (rs *RedisStore) SaveRoom(ctx context.Context, rec RoomRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal room record: %w", err)
	}

	key := roomKeyPrefix + rec.ID
	pipe := rs.client.Pipeline()
	pipe.Set(ctx, key, data, roomExpiration)
	pipe.SAdd(ctx, roomIndexKey, rec.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// LoadRoom reads a room record; nil when it does not exist.
func (rs *RedisStore) LoadRoom(ctx context.Context, id string) (*RoomRecord, error) {
	key := roomKeyPrefix + id
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec RoomRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal room record: %w", err)
	}

	return &rec, nil
}

// DeleteRoom removes a room record and its index entry.
func (rs *RedisStore) DeleteRoom(ctx context.Context, id string) error {
	pipe := rs.client.Pipeline()
	pipe.Del(ctx, roomKeyPrefix+id)
	pipe.SRem(ctx, roomIndexKey, id)
	_, err := pipe.Exec(ctx)
	return err
}

// GetAllRoomIDs lists every indexed room id.
func (rs *RedisStore) GetAllRoomIDs(ctx context.Context) ([]string, error) {
	return rs.client.SMembers(ctx, roomIndexKey).Result()
}
