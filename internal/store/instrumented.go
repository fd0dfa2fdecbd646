package store

import (
	"context"
	"errors"

	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/pkg/logger"
	"github.com/postan/postan-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var log = logger.Named("store")

// Instrumented wraps a Store, counting every operation and logging failures.
type Instrumented struct {
	next Store
}

func Instrument(s Store) *Instrumented {
	return &Instrumented{next: s}
}

func record(kind models.Kind, op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrDuplicateKey):
		outcome = "duplicate"
	case errors.Is(err, ErrUnknownKind):
		outcome = "unknown_kind"
	default:
		outcome = "error"
		log.Errorf("%s %s: %v", op, kind, err)
	}
	metrics.StoreOperations.WithLabelValues(string(kind), op, outcome).Inc()
}

func (s *Instrumented) IsRegisteredKind(kind models.Kind) bool {
	return s.next.IsRegisteredKind(kind)
}

func (s *Instrumented) Exists(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bool, error) {
	ok, err := s.next.Exists(ctx, kind, id)
	record(kind, "exists", err)
	return ok, err
}

func (s *Instrumented) FindMatching(ctx context.Context, kind models.Kind, filter bson.D) ([]bson.M, error) {
	docs, err := s.next.FindMatching(ctx, kind, filter)
	record(kind, "find", err)
	return docs, err
}

func (s *Instrumented) FindByID(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bson.M, error) {
	d, err := s.next.FindByID(ctx, kind, id)
	record(kind, "find_by_id", err)
	return d, err
}

func (s *Instrumented) Create(ctx context.Context, kind models.Kind, doc interface{}) (primitive.ObjectID, error) {
	id, err := s.next.Create(ctx, kind, doc)
	record(kind, "create", err)
	if err == nil {
		log.Debugf("created %s %s", kind, id.Hex())
	}
	return id, err
}

func (s *Instrumented) DeleteByID(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bson.M, error) {
	d, err := s.next.DeleteByID(ctx, kind, id)
	record(kind, "delete", err)
	return d, err
}
