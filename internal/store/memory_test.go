package store

import (
	"context"
	"errors"
	"testing"

	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultRegistry(false))

	u := &models.User{ID: primitive.NewObjectID(), Email: "email@address.com", Password: "x", Username: "username", Handle: "handle123"}
	id, err := s.Create(ctx, models.KindUser, u)
	require.NoError(t, err)
	require.Equal(t, u.ID, id)

	ok, err := s.Exists(ctx, models.KindUser, id)
	require.NoError(t, err)
	require.True(t, ok)

	doc, err := s.FindByID(ctx, models.KindUser, id)
	require.NoError(t, err)
	var got models.User
	require.NoError(t, Decode(doc, &got))
	require.Equal(t, "handle123", got.Handle)

	found, err := s.FindMatching(ctx, models.KindUser, bson.D{{Key: models.FieldEmail, Value: "email@address.com"}})
	require.NoError(t, err)
	require.Len(t, found, 1)

	deleted, err := s.DeleteByID(ctx, models.KindUser, id)
	require.NoError(t, err)
	require.Equal(t, id, deleted["_id"])

	_, err = s.FindByID(ctx, models.KindUser, id)
	require.ErrorIs(t, err, ErrNotFound)
	ok, err = s.Exists(ctx, models.KindUser, id)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreAssignsID(t *testing.T) {
	s := NewMemoryStore(DefaultRegistry(false))
	id, err := s.Create(context.Background(), models.KindLike, &models.Like{PostID: primitive.NewObjectID(), UserID: primitive.NewObjectID()})
	require.NoError(t, err)
	require.False(t, id.IsZero())
	require.Equal(t, 1, s.Len(models.KindLike))
}

func TestMemoryStoreUniqueFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultRegistry(false))

	_, err := s.Create(ctx, models.KindUser, &models.User{Email: "a@b.com", Handle: "one"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.KindUser, &models.User{Email: "a@b.com", Handle: "two"})
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, 1, s.Len(models.KindUser))
}

func TestMemoryStoreRelationshipUniquenessIsOptional(t *testing.T) {
	ctx := context.Background()
	like := &models.Like{PostID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}

	loose := NewMemoryStore(DefaultRegistry(false))
	_, err := loose.Create(ctx, models.KindLike, like)
	require.NoError(t, err)
	_, err = loose.Create(ctx, models.KindLike, like)
	require.NoError(t, err)
	require.Equal(t, 2, loose.Len(models.KindLike))

	strict := NewMemoryStore(DefaultRegistry(true))
	_, err = strict.Create(ctx, models.KindLike, like)
	require.NoError(t, err)
	_, err = strict.Create(ctx, models.KindLike, like)
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestMemoryStoreUnknownKind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultRegistry(false))
	require.False(t, s.IsRegisteredKind("comment"))

	_, err := s.Exists(ctx, "comment", primitive.NewObjectID())
	require.ErrorIs(t, err, ErrUnknownKind)
	_, err = s.FindMatching(ctx, "comment", nil)
	require.ErrorIs(t, err, ErrUnknownKind)
	_, err = s.Create(ctx, "comment", bson.M{})
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestMemoryStoreSetMembershipAndArrays(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultRegistry(false))
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
	msg := "hello"

	_, err := s.Create(ctx, models.KindPost, &models.Post{User: alice, Timestamp: "t", Message: &msg, Mentions: []primitive.ObjectID{bob}})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.KindPost, &models.Post{User: bob, Timestamp: "t", Message: &msg})
	require.NoError(t, err)

	byUsers, err := s.FindMatching(ctx, models.KindPost, bson.D{{Key: models.FieldUser, Value: In{alice, bob}}})
	require.NoError(t, err)
	require.Len(t, byUsers, 2)

	mentioningBob, err := s.FindMatching(ctx, models.KindPost, bson.D{{Key: models.FieldMentions, Value: bob}})
	require.NoError(t, err)
	require.Len(t, mentioningBob, 1)
}

func TestFormatFilter(t *testing.T) {
	id, _ := primitive.ObjectIDFromHex("60d3b41abdacab0026a733c6")
	got := FormatFilter(bson.D{{Key: "postId", Value: id}, {Key: "tag", Value: In{"#a", "#b"}}})
	require.Equal(t, "{postId: 60d3b41abdacab0026a733c6, tag: [#a, #b]}", got)
}

func TestInstrumentedCountsOutcomes(t *testing.T) {
	ctx := context.Background()
	s := Instrument(NewMemoryStore(DefaultRegistry(false)))

	before := testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("post", "find_by_id", "not_found"))
	_, err := s.FindByID(ctx, models.KindPost, primitive.NewObjectID())
	require.True(t, errors.Is(err, ErrNotFound))
	after := testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("post", "find_by_id", "not_found"))
	require.Equal(t, before+1, after)
}
