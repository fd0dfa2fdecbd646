// Package store is the document persistence layer consumed by validation and
// the CRUD services. Two implementations share one contract: MemoryStore for
// tests and local runs, MongoStore for deployments.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/postan/postan-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrUnknownKind  = errors.New("unknown document kind")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Store provides atomic single-document writes, uniqueness constraints on
// the fields a kind registers, and equality / set-membership queries.
type Store interface {
	IsRegisteredKind(kind models.Kind) bool
	Exists(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bool, error)
	FindMatching(ctx context.Context, kind models.Kind, filter bson.D) ([]bson.M, error)
	FindByID(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bson.M, error)
	Create(ctx context.Context, kind models.Kind, doc interface{}) (primitive.ObjectID, error)
	DeleteByID(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bson.M, error)
}

// In wraps a filter value to request set membership instead of equality.
type In []interface{}

// Decode converts a stored document into the given struct pointer.
func Decode(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return bson.Unmarshal(raw, out)
}

// FormatFilter renders a filter as "{field: value, ...}" in declared order.
// The output is stable so it can be used in client-facing messages.
func FormatFilter(filter bson.D) string {
	parts := make([]string, 0, len(filter))
	for _, e := range filter {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Key, formatValue(e.Value)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v interface{}) string {
	switch vv := v.(type) {
	case primitive.ObjectID:
		return vv.Hex()
	case In:
		items := make([]string, 0, len(vv))
		for _, x := range vv {
			items = append(items, formatValue(x))
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

// KindSpec describes how a kind is persisted.
type KindSpec struct {
	Kind       models.Kind
	Collection string
	// Unique lists field sets that must not repeat across documents.
	Unique [][]string
}

// Registry is the static mapping from kind to storage description, built at
// startup and queried by name.
type Registry struct {
	specs map[models.Kind]KindSpec
	order []models.Kind
}

func NewRegistry(specs ...KindSpec) *Registry {
	r := &Registry{specs: make(map[models.Kind]KindSpec, len(specs))}
	for _, s := range specs {
		if s.Collection == "" {
			s.Collection = string(s.Kind) + "s"
		}
		if _, dup := r.specs[s.Kind]; !dup {
			r.order = append(r.order, s.Kind)
		}
		r.specs[s.Kind] = s
	}
	return r
}

// DefaultRegistry registers user, post, like and following. User email and
// handle are always unique. Relationship pairs are only unique at the
// storage level when atomicRelationships is set.
func DefaultRegistry(atomicRelationships bool) *Registry {
	like := KindSpec{Kind: models.KindLike}
	following := KindSpec{Kind: models.KindFollowing}
	if atomicRelationships {
		like.Unique = [][]string{{models.PostID, models.UserID}}
		following.Unique = [][]string{{models.FieldFollower, models.FieldFollowing}}
	}
	return NewRegistry(
		KindSpec{Kind: models.KindUser, Unique: [][]string{{models.FieldEmail}, {models.FieldHandle}}},
		KindSpec{Kind: models.KindPost},
		like,
		following,
	)
}

func (r *Registry) Lookup(kind models.Kind) (KindSpec, bool) {
	s, ok := r.specs[kind]
	return s, ok
}

// Kinds returns registered kinds in registration order.
func (r *Registry) Kinds() []models.Kind {
	out := make([]models.Kind, len(r.order))
	copy(out, r.order)
	return out
}
