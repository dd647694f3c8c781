package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/erp/chatbot/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, opts ...RedisStoreOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Minute, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_UpdateRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))

	conv, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", conv.SessionID)
	assert.Equal(t, conversation.UseCaseSalesOrder, conv.UseCase)
	require.Equal(t, 1, conv.Draft.ItemCount())
	items := conv.Draft.ItemsSnapshot()
	assert.Equal(t, "I1", items[0].ItemCode)
	assert.Equal(t, "Cement", items[0].ItemName)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(10)), "price must survive the JSON round trip")
}

func TestRedisStore_GetUnknownSession(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRedisStore_FailedUpdateNotPersisted(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))

	boom := errors.New("boom")
	err := store.Update(ctx, "s1", func(conv *conversation.Conversation) error {
		conv.Draft.StageItem("I2", "Sand", decimal.NewFromInt(4))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	conv, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, conv.Draft.StagedItem, "aborted update must not be written back")
}

func TestRedisStore_SessionKeyCarriesTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))

	ttl := mr.TTL("chatbot:session:s1")
	assert.True(t, ttl > 0, "session key must expire, got ttl %v", ttl)
}

func TestRedisStore_KeyPrefixOption(t *testing.T) {
	store, mr := newTestRedisStore(t, WithKeyPrefix("other:"))
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))

	assert.True(t, mr.Exists("other:s1"))
	assert.False(t, mr.Exists("chatbot:session:s1"))
}

func TestRedisStore_LockReleasedAfterUpdate(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))
	assert.False(t, mr.Exists("chatbot:session:lock:s1"), "lock must be released after a committed update")

	_ = store.Update(ctx, "s1", func(*conversation.Conversation) error {
		return errors.New("boom")
	})
	assert.False(t, mr.Exists("chatbot:session:lock:s1"), "lock must be released after an aborted update")
}

func TestRedisStore_UpdateBlocksOnHeldLock(t *testing.T) {
	store, mr := newTestRedisStore(t, WithLockTTL(time.Minute))
	require.NoError(t, mr.Set("chatbot:session:lock:s1", "someone-else"))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := store.Update(ctx, "s1", appendOneItem)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = store.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, shared.ErrNotFound, "update under a foreign lock must not write")
}

func TestRedisStore_Remove(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))
	require.NoError(t, store.Remove(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.NoError(t, store.Remove(ctx, "s1"))
}
