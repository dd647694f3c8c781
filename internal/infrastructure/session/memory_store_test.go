package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/erp/chatbot/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendOneItem(conv *conversation.Conversation) error {
	if conv.UseCase == conversation.UseCaseUnset {
		if err := conv.SetUseCase(conversation.UseCaseSalesOrder); err != nil {
			return err
		}
	}
	conv.Draft.StageItem("I1", "Cement", decimal.NewFromInt(10))
	_, err := conv.Draft.CommitStagedItem(decimal.NewFromInt(1))
	return err
}

func TestInMemoryStore_UpdateCreatesOnFirstReference(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, store.Update(ctx, "s1", func(conv *conversation.Conversation) error {
		assert.Equal(t, "s1", conv.SessionID)
		assert.Equal(t, conversation.StepStart, conv.Step)
		return nil
	}))

	conv, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", conv.SessionID)
}

func TestInMemoryStore_FailedUpdateRollsBack(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))

	boom := errors.New("boom")
	err := store.Update(ctx, "s1", func(conv *conversation.Conversation) error {
		conv.Draft.StageItem("I2", "Sand", decimal.NewFromInt(4))
		if _, err := conv.Draft.CommitStagedItem(decimal.NewFromInt(2)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	conv, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, conv.Draft.ItemCount(), "failed update must not persist its mutations")
}

func TestInMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))

	conv, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	_, err = conv.Draft.DeleteItemAt(1)
	require.NoError(t, err)

	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Draft.ItemCount(), "mutating a Get result must not affect the store")
}

func TestInMemoryStore_SameSessionSerialized(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, "shared", appendOneItem)
		}()
	}
	wg.Wait()

	conv, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, workers, conv.Draft.ItemCount(), "no appends may be lost")
}

func TestInMemoryStore_DistinctSessionsIsolated(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d"} {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_ = store.Update(ctx, id, appendOneItem)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range []string{"a", "b", "c", "d"} {
		conv, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 10, conv.Draft.ItemCount(), "session %s", id)
	}
}

func TestInMemoryStore_Remove(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))
	require.NoError(t, store.Remove(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Removing twice is harmless
	assert.NoError(t, store.Remove(ctx, "s1"))
}

func TestInMemoryStore_ExpiredSessionNotReturned(t *testing.T) {
	store := NewInMemoryStore(10 * time.Millisecond)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "s1", appendOneItem))
	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInMemoryStore_CancelledContext(t *testing.T) {
	store := NewInMemoryStore(time.Minute)
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Update(ctx, "s1", appendOneItem)
	assert.ErrorIs(t, err, context.Canceled)
}
