package reference

import "context"

// Repository defines name lookups against the canonical reference dataset
type Repository interface {
	// FindByName resolves a free-text name to a canonical record using a
	// case-insensitive exact match on the name column. When several rows
	// match, the lowest code wins; returns shared.ErrNotFound when none do.
	FindByName(ctx context.Context, kind EntityKind, name string) (*ResolvedEntity, error)

	// ListNames returns every canonical name of the given kind, for loading
	// into the autocomplete index.
	ListNames(ctx context.Context, kind EntityKind) ([]string, error)
}

// NameIndex serves prefix autocomplete over a maintained index of entity
// names. The index is loaded out of band from the canonical dataset and may
// lag behind it; staleness is accepted here.
type NameIndex interface {
	// Suggest returns up to limit names starting with the prefix, in index
	// order. An empty prefix yields an empty result.
	Suggest(ctx context.Context, kind EntityKind, prefix string, limit int) ([]string, error)
}
