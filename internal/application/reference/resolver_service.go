// Package reference provides the application-level resolver that the
// conversation flows use to translate free-text names into canonical
// master-data records.
package reference

import (
	"context"
	"errors"
	"time"

	"github.com/erp/chatbot/internal/domain/reference"
	"github.com/erp/chatbot/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultSuggestLimit caps autocomplete results when the caller passes no limit
const DefaultSuggestLimit = 10

// ResolverService resolves entity names against the reference dataset and
// serves autocomplete suggestions from the name index. Every backend call is
// bounded by a timeout; a timeout or transport failure degrades to
// shared.ErrResolverUnavailable rather than hanging the request.
type ResolverService struct {
	repo    reference.Repository
	index   reference.NameIndex
	timeout time.Duration
	logger  *zap.Logger
}

// NewResolverService creates a ResolverService. A non-positive timeout
// defaults to 3 seconds.
func NewResolverService(repo reference.Repository, index reference.NameIndex, timeout time.Duration, logger *zap.Logger) *ResolverService {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolverService{
		repo:    repo,
		index:   index,
		timeout: timeout,
		logger:  logger,
	}
}

// ResolveExact resolves a free-text name to a canonical entity.
// Returns shared.ErrNotFound for an authoritative miss and
// shared.ErrResolverUnavailable for backend failures. The two are logged
// distinctly: the flow layer treats them the same, observability must not.
func (s *ResolverService) ResolveExact(ctx context.Context, kind reference.EntityKind, name string) (*reference.ResolvedEntity, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_KIND", "Unknown entity kind: "+kind.String())
	}
	if name == "" {
		return nil, shared.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entity, err := s.repo.FindByName(ctx, kind, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("reference lookup found no match",
				zap.String("kind", kind.String()),
				zap.String("name", name),
			)
			return nil, shared.ErrNotFound
		}
		s.logger.Warn("reference lookup backend failure",
			zap.String("kind", kind.String()),
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, shared.ErrResolverUnavailable
	}
	return entity, nil
}

// Suggest returns up to limit name suggestions for the prefix. Backend
// failures surface as shared.ErrResolverUnavailable; an empty prefix is not
// an error and yields no suggestions.
func (s *ResolverService) Suggest(ctx context.Context, kind reference.EntityKind, prefix string, limit int) ([]string, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_KIND", "Unknown entity kind: "+kind.String())
	}
	if prefix == "" {
		return []string{}, nil
	}
	if limit <= 0 || limit > DefaultSuggestLimit {
		limit = DefaultSuggestLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names, err := s.index.Suggest(ctx, kind, prefix, limit)
	if err != nil {
		s.logger.Warn("name index query failed",
			zap.String("kind", kind.String()),
			zap.String("prefix", prefix),
			zap.Error(err),
		)
		return nil, shared.ErrResolverUnavailable
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
