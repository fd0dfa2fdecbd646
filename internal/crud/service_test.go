package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/internal/validation"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func likeService(s store.Store, validate ValidateFunc[models.Like]) *Service[models.Like] {
	return NewService(models.KindLike, s, validate, func(l *models.Like) bson.D {
		return bson.D{{Key: models.PostID, Value: l.PostID}, {Key: models.UserID, Value: l.UserID}}
	})
}

func TestCreateRunsValidationFirst(t *testing.T) {
	s := store.NewMemoryStore(store.DefaultRegistry(false))
	rejected := &validation.ValidationError{
		EntityKind: models.KindLike,
		Fields:     []validation.FieldError{{Field: models.PostID, Message: validation.LikeMessages.PostNotExist}},
	}
	svc := likeService(s, func(context.Context, *models.Like) error { return rejected })

	_, err := svc.Create(context.Background(), &models.Like{PostID: primitive.NewObjectID(), UserID: primitive.NewObjectID()})
	require.ErrorIs(t, err, rejected)
	require.Equal(t, 0, s.Len(models.KindLike))
}

func TestCreateGetFindDelete(t *testing.T) {
	s := store.NewMemoryStore(store.DefaultRegistry(false))
	svc := likeService(s, nil)
	ctx := context.Background()
	post := primitive.NewObjectID()

	id, err := svc.Create(ctx, &models.Like{PostID: post, UserID: primitive.NewObjectID()})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, post, got.PostID)

	found, err := svc.Find(ctx, bson.D{{Key: models.PostID, Value: post}})
	require.NoError(t, err)
	require.Len(t, found, 1)

	deleted, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, deleted.ID)

	_, err = svc.Get(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDuplicateKeyBecomesConflict(t *testing.T) {
	s := store.NewMemoryStore(store.DefaultRegistry(true))
	svc := likeService(s, nil)
	ctx := context.Background()
	like := models.Like{PostID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}

	_, err := svc.Create(ctx, &like)
	require.NoError(t, err)
	again := like
	again.ID = primitive.NilObjectID
	_, err = svc.Create(ctx, &again)

	var conflict *validation.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, models.KindLike, conflict.EntityKind)
	require.Equal(t, 1, s.Len(models.KindLike))
}

func TestCreateFromSource(t *testing.T) {
	s := store.NewMemoryStore(store.DefaultRegistry(false))
	svc := likeService(s, func(context.Context, *models.Like) error {
		return errors.New("validate hook must not run")
	})
	decoded := &models.Like{PostID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}

	id, err := svc.CreateFromSource(context.Background(), validation.Source{}, func(context.Context, validation.Source) (*models.Like, error) {
		return decoded, nil
	})
	require.NoError(t, err)
	require.False(t, id.IsZero())
	require.Equal(t, 1, s.Len(models.KindLike))
}
