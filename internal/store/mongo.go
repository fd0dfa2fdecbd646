package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/postan/postan-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore maps every registered kind to a collection of one database.
type MongoStore struct {
	db       *mongo.Database
	registry *Registry
}

func NewMongoStore(db *mongo.Database, registry *Registry) *MongoStore {
	return &MongoStore{db: db, registry: registry}
}

func (m *MongoStore) collection(kind models.Kind) (*mongo.Collection, error) {
	def, ok := m.registry.Lookup(kind)
	if !ok {
		return nil, ErrUnknownKind
	}
	return m.db.Collection(def.Collection), nil
}

// EnsureIndexes creates the unique indexes each kind registers. Safe to
// call on every startup.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	for _, kind := range m.registry.Kinds() {
		def, _ := m.registry.Lookup(kind)
		col := m.db.Collection(def.Collection)
		for _, fields := range def.Unique {
			keys := bson.D{}
			for _, f := range fields {
				keys = append(keys, bson.E{Key: f, Value: 1})
			}
			idx := mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
			if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
				return fmt.Errorf("create index on %s %v: %w", def.Collection, fields, err)
			}
		}
	}
	return nil
}

func (m *MongoStore) IsRegisteredKind(kind models.Kind) bool {
	_, ok := m.registry.Lookup(kind)
	return ok
}

func (m *MongoStore) Exists(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bool, error) {
	col, err := m.collection(kind)
	if err != nil {
		return false, err
	}
	n, err := col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count %s: %w", kind, err)
	}
	return n > 0, nil
}

func (m *MongoStore) FindMatching(ctx context.Context, kind models.Kind, filter bson.D) ([]bson.M, error) {
	col, err := m.collection(kind)
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx, toMongoFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	defer cur.Close(ctx)
	out := []bson.M{}
	for cur.Next(ctx) {
		var d bson.M
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

func (m *MongoStore) FindByID(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bson.M, error) {
	col, err := m.collection(kind)
	if err != nil {
		return nil, err
	}
	var d bson.M
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s %s: %w", kind, id.Hex(), err)
	}
	return d, nil
}

func (m *MongoStore) Create(ctx context.Context, kind models.Kind, doc interface{}) (primitive.ObjectID, error) {
	col, err := m.collection(kind)
	if err != nil {
		return primitive.NilObjectID, err
	}
	res, err := col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return primitive.NilObjectID, fmt.Errorf("insert %s: %w", kind, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert %s: unexpected id type %T", kind, res.InsertedID)
	}
	return id, nil
}

func (m *MongoStore) DeleteByID(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bson.M, error) {
	col, err := m.collection(kind)
	if err != nil {
		return nil, err
	}
	var d bson.M
	if err := col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete %s %s: %w", kind, id.Hex(), err)
	}
	return d, nil
}

func toMongoFilter(filter bson.D) bson.D {
	out := make(bson.D, 0, len(filter))
	for _, e := range filter {
		if set, ok := e.Value.(In); ok {
			out = append(out, bson.E{Key: e.Key, Value: bson.M{"$in": []interface{}(set)}})
			continue
		}
		out = append(out, e)
	}
	return out
}
