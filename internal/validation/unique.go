package validation

import (
	"context"
	"errors"

	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

// UniquenessGuard checks that no stored document matches a filter.
//
// The check is advisory: two concurrent requests can both pass it before
// either write lands. Kinds that need a hard guarantee must also register a
// unique field set with the store (see store.DefaultRegistry).
type UniquenessGuard struct {
	store store.Store
}

func NewUniquenessGuard(s store.Store) *UniquenessGuard {
	return &UniquenessGuard{store: s}
}

// IsUnique reports whether nothing of kind matches filter. Unregistered kinds
// hold no documents and are always unique.
func (g *UniquenessGuard) IsUnique(ctx context.Context, kind models.Kind, filter bson.D) (bool, error) {
	docs, err := g.store.FindMatching(ctx, kind, filter)
	if errors.Is(err, store.ErrUnknownKind) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(docs) == 0, nil
}

// RequireNoMatch fails with ConflictError when a document matches filter.
func (g *UniquenessGuard) RequireNoMatch(ctx context.Context, kind models.Kind, filter bson.D) error {
	ok, err := g.IsUnique(ctx, kind, filter)
	if err != nil {
		return err
	}
	if !ok {
		return &ConflictError{EntityKind: kind, Filter: filter}
	}
	return nil
}
