package search

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/chatbot/internal/domain/reference"
)

// miniredis has no FT.* support, so EnsureIndexes and Suggest are only
// covered against a real RediSearch in integration environments. Rebuild
// and the query escaping are plain Redis and testable here.

func newTestIndex(t *testing.T) (*RedisNameIndex, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisNameIndex(client, nil), mr
}

func TestRedisNameIndex_RebuildLoadsHashes(t *testing.T) {
	idx, mr := newTestIndex(t)
	ctx := context.Background()

	names := []string{"Acme Corp", "Beta Builders", "Gamma Trading"}
	require.NoError(t, idx.Rebuild(ctx, reference.EntityKindCustomer, names))

	for n, name := range names {
		got := mr.HGet("customer:"+strconv.Itoa(n), "name")
		assert.Equal(t, name, got)
	}
}

func TestRedisNameIndex_RebuildClearsStaleKeys(t *testing.T) {
	idx, mr := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Rebuild(ctx, reference.EntityKindItem, []string{"Cement", "Sand", "Gravel"}))
	require.NoError(t, idx.Rebuild(ctx, reference.EntityKindItem, []string{"Cement"}))

	assert.True(t, mr.Exists("item:0"))
	assert.False(t, mr.Exists("item:1"), "stale entries must be dropped on rebuild")
	assert.False(t, mr.Exists("item:2"))
}

func TestRedisNameIndex_RebuildDoesNotTouchOtherKinds(t *testing.T) {
	idx, mr := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Rebuild(ctx, reference.EntityKindCustomer, []string{"Acme Corp"}))
	require.NoError(t, idx.Rebuild(ctx, reference.EntityKindItem, []string{"Cement"}))
	require.NoError(t, idx.Rebuild(ctx, reference.EntityKindItem, nil))

	assert.True(t, mr.Exists("customer:0"), "rebuilding items must not clear customers")
	assert.False(t, mr.Exists("item:0"))
}

func TestRedisNameIndex_SuggestEmptyPrefix(t *testing.T) {
	idx, _ := newTestIndex(t)

	names, err := idx.Suggest(context.Background(), reference.EntityKindCustomer, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, names)

	names, err = idx.Suggest(context.Background(), reference.EntityKindCustomer, "Acme", 0)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEscapeQueryTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme", "Acme"},
		{"A-1 Supply", `A\-1\ Supply`},
		{"O'Brien", `O\'Brien`},
		{"a/b", `a\/b`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeQueryTerm(tt.in), tt.in)
	}
}
