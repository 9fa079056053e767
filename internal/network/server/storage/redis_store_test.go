package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client)
}

func testRoomRecord(id string) RoomRecord {
	return RoomRecord{
		ID:        id,
		Name:      "Alice's table",
		OwnerID:   "p1",
		State:     "waiting",
		DeckSize:  36,
		CreatedAt: time.Now().Unix(),
		Players: []PlayerRecord{
			{ID: "p1", Name: "Alice", Seat: 0},
			{ID: "p2", Name: "Bob", Seat: 1, Ready: true},
		},
	}
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, testRoomRecord("123456")))

	loaded, err := store.LoadRoom(ctx, "123456")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Alice's table", loaded.Name)
	assert.Equal(t, 36, loaded.DeckSize)
	require.Len(t, loaded.Players, 2)
	assert.True(t, loaded.Players[1].Ready)

	ids, err := store.GetAllRoomIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"123456"}, ids)

	require.NoError(t, store.DeleteRoom(ctx, "123456"))

	loaded, err = store.LoadRoom(ctx, "123456")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	ids, err = store.GetAllRoomIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_LoadMissingRoom(t *testing.T) {
	store := newTestRedisStore(t)

	loaded, err := store.LoadRoom(context.Background(), "999999")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_SaveOverwrites(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	rec := testRoomRecord("123456")
	require.NoError(t, store.SaveRoom(ctx, rec))

	rec.State = "playing"
	require.NoError(t, store.SaveRoom(ctx, rec))

	loaded, err := store.LoadRoom(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "playing", loaded.State)

	// the index holds one entry per room
	ids, err := store.GetAllRoomIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}
