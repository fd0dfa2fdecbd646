package validation

import (
	"context"

	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferenceChecker resolves weak references against the store. Every call
// issues fresh queries; results are never cached.
type ReferenceChecker struct {
	store store.Store
}

func NewReferenceChecker(s store.Store) *ReferenceChecker {
	return &ReferenceChecker{store: s}
}

// IsValidRef is false for an unregistered kind or a missing document. Only
// storage failures are returned as errors.
func (r *ReferenceChecker) IsValidRef(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bool, error) {
	if !r.store.IsRegisteredKind(kind) {
		return false, nil
	}
	return r.store.Exists(ctx, kind, id)
}

// AreValidRefs checks ids one at a time and stops at the first that does not
// resolve. An empty list is valid.
func (r *ReferenceChecker) AreValidRefs(ctx context.Context, kind models.Kind, ids []primitive.ObjectID) (bool, error) {
	for _, id := range ids {
		ok, err := r.IsValidRef(ctx, kind, id)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// RequireRef is the route-level form: it tells an unknown kind apart from a
// missing document.
func (r *ReferenceChecker) RequireRef(ctx context.Context, kind models.Kind, id primitive.ObjectID) error {
	if !r.store.IsRegisteredKind(kind) {
		return &UnknownEntityKindError{EntityKind: kind}
	}
	ok, err := r.store.Exists(ctx, kind, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ReferenceNotFoundError{ID: id.Hex(), EntityKind: kind}
	}
	return nil
}
