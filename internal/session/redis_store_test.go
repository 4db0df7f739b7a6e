package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, time.Hour)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Appointments)
	assert.Nil(t, loaded.Pending)

	state := sampleState()
	require.NoError(t, store.Save(ctx, "s1", state))

	loaded, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, loaded.Appointments, 1)
	assert.Equal(t, "Jamie", loaded.Appointments[0].Attendee)
	assert.True(t, loaded.Appointments[0].Time.Equal(state.Appointments[0].Time))
	require.NotNil(t, loaded.Pending)
	assert.Equal(t, "Sam", loaded.Pending.Attendee)

	require.NoError(t, store.Delete(ctx, "s1"))
	loaded, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Appointments)
}

func TestRedisStoreAppliesTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	require.NoError(t, store.Save(ctx, "s1", sampleState()))
	if got := mr.TTL(redisKey("s1")); got != time.Hour {
		t.Errorf("ttl = %s, want 1h", got)
	}

	mr.FastForward(2 * time.Hour)
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Appointments, "session should expire")
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)

	require.NoError(t, mr.Set(redisKey("s1"), "not-json"))
	_, err := store.Load(ctx, "s1")
	assert.Error(t, err)
}

func TestRedisStoreRequiresSessionID(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, 0)

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrSessionIDRequired)
	assert.ErrorIs(t, store.Save(ctx, "", State{}), ErrSessionIDRequired)
}
