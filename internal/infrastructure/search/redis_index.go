package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erp/chatbot/internal/domain/reference"
)

// Hash keys are <kind>:<n> with a single "name" field; each kind gets its
// own RediSearch index over that prefix so suggestions never cross kinds.
const (
	indexPrefix = "idx:"
	rebuildScan = 500
)

// RedisNameIndex serves prefix autocomplete from per-kind RediSearch
// indexes. The indexes are populated by Rebuild, typically from the
// indexer command, and are allowed to lag behind the canonical dataset.
type RedisNameIndex struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisNameIndex creates an index client. Call EnsureIndexes before
// serving queries.
func NewRedisNameIndex(client *redis.Client, logger *zap.Logger) *RedisNameIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNameIndex{client: client, logger: logger}
}

func indexName(kind reference.EntityKind) string {
	return indexPrefix + string(kind)
}

func hashPrefix(kind reference.EntityKind) string {
	return string(kind) + ":"
}

// EnsureIndexes creates the per-kind search indexes if they do not exist.
// The name field is indexed with the dm:en phonetic matcher so near-miss
// spellings still surface in suggestions.
func (i *RedisNameIndex) EnsureIndexes(ctx context.Context) error {
	for _, kind := range []reference.EntityKind{
		reference.EntityKindCustomer,
		reference.EntityKindVendor,
		reference.EntityKindItem,
	} {
		err := i.client.FTCreate(ctx, indexName(kind),
			&redis.FTCreateOptions{
				OnHash: true,
				Prefix: []interface{}{hashPrefix(kind)},
			},
			&redis.FieldSchema{
				FieldName:       "name",
				FieldType:       redis.SearchFieldTypeText,
				PhoneticMatcher: "dm:en",
				Sortable:        true,
			},
		).Err()
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("failed to create search index for %s: %w", kind, err)
		}
		i.logger.Info("created search index", zap.String("index", indexName(kind)))
	}
	return nil
}

// Suggest implements reference.NameIndex using a prefix term query
func (i *RedisNameIndex) Suggest(ctx context.Context, kind reference.EntityKind, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		return []string{}, nil
	}

	query := fmt.Sprintf("@name:(%s*)", escapeQueryTerm(prefix))
	res, err := i.client.FTSearchWithArgs(ctx, indexName(kind), query, &redis.FTSearchOptions{
		Return:      []redis.FTSearchReturn{{FieldName: "name"}},
		LimitOffset: 0,
		Limit:       limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("search query failed for %s: %w", kind, err)
	}

	names := make([]string, 0, len(res.Docs))
	for _, doc := range res.Docs {
		if name, ok := doc.Fields["name"]; ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Rebuild replaces the indexed name set for a kind. Existing hashes under
// the kind's prefix are dropped first so renamed or deleted records do not
// linger in suggestions.
func (i *RedisNameIndex) Rebuild(ctx context.Context, kind reference.EntityKind, names []string) error {
	if err := i.clearKind(ctx, kind); err != nil {
		return err
	}

	pipe := i.client.Pipeline()
	for n, name := range names {
		key := fmt.Sprintf("%s%d", hashPrefix(kind), n)
		pipe.HSet(ctx, key, "name", name)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to load %s names into index: %w", kind, err)
	}

	i.logger.Info("rebuilt search index",
		zap.String("kind", string(kind)),
		zap.Int("names", len(names)))
	return nil
}

func (i *RedisNameIndex) clearKind(ctx context.Context, kind reference.EntityKind) error {
	var cursor uint64
	pattern := hashPrefix(kind) + "*"
	for {
		keys, next, err := i.client.Scan(ctx, cursor, pattern, rebuildScan).Result()
		if err != nil {
			return fmt.Errorf("failed to scan %s index keys: %w", kind, err)
		}
		if len(keys) > 0 {
			if err := i.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to clear %s index keys: %w", kind, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// escapeQueryTerm backslash-escapes RediSearch query syntax so punctuated
// names ("A-1 Supply") stay a single prefix term
func escapeQueryTerm(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range term {
		if strings.ContainsRune(`,.<>{}[]"':;!@#$%^&*()-+=~|/\ `, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ reference.NameIndex = (*RedisNameIndex)(nil)
