// Package crud provides the create/get/find/delete operations shared by every
// entity kind, with entity validation run before each write.
package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateFunc is the validate-on-write hook of a kind.
type ValidateFunc[T any] func(ctx context.Context, doc *T) error

// SourceFunc decodes a request source into a document, validating it on the
// way.
type SourceFunc[T any] func(ctx context.Context, src validation.Source) (*T, error)

// Service is the business layer of one entity kind.
type Service[T any] struct {
	kind     models.Kind
	store    store.Store
	validate ValidateFunc[T]
	// conflict describes a document for ConflictError when the store rejects
	// it as a duplicate.
	conflict func(doc *T) bson.D
}

func NewService[T any](kind models.Kind, s store.Store, validate ValidateFunc[T], conflict func(doc *T) bson.D) *Service[T] {
	return &Service[T]{kind: kind, store: s, validate: validate, conflict: conflict}
}

func (s *Service[T]) Kind() models.Kind { return s.kind }

// Create validates doc and writes it. Validation failures come back as
// *validation.ValidationError and nothing is stored.
func (s *Service[T]) Create(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	if s.validate != nil {
		if err := s.validate(ctx, doc); err != nil {
			return primitive.NilObjectID, err
		}
	}
	return s.insert(ctx, doc)
}

// CreateFromSource decodes and validates src, then writes the document. The
// validate hook is not run a second time.
func (s *Service[T]) CreateFromSource(ctx context.Context, src validation.Source, decode SourceFunc[T]) (primitive.ObjectID, error) {
	doc, err := decode(ctx, src)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return s.insert(ctx, doc)
}

func (s *Service[T]) insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	id, err := s.store.Create(ctx, s.kind, doc)
	if errors.Is(err, store.ErrDuplicateKey) {
		var filter bson.D
		if s.conflict != nil {
			filter = s.conflict(doc)
		}
		return primitive.NilObjectID, &validation.ConflictError{EntityKind: s.kind, Filter: filter}
	}
	return id, err
}

// Get returns store.ErrNotFound when id is absent.
func (s *Service[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	d, err := s.store.FindByID(ctx, s.kind, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](d)
}

func (s *Service[T]) Find(ctx context.Context, filter bson.D) ([]*T, error) {
	docs, err := s.store.FindMatching(ctx, s.kind, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		v, err := decodeOne[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Delete removes and returns the document, or store.ErrNotFound.
func (s *Service[T]) Delete(ctx context.Context, id primitive.ObjectID) (*T, error) {
	d, err := s.store.DeleteByID(ctx, s.kind, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](d)
}

func decodeOne[T any](d bson.M) (*T, error) {
	v := new(T)
	if err := store.Decode(d, v); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return v, nil
}
