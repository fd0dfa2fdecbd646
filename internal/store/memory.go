package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/postan/postan-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps documents in process memory, one ordered slice per
// kind. Writes are serialized so uniqueness constraints hold atomically.
type MemoryStore struct {
	mu       sync.RWMutex
	registry *Registry
	docs     map[models.Kind][]bson.M
}

func NewMemoryStore(registry *Registry) *MemoryStore {
	return &MemoryStore{registry: registry, docs: make(map[models.Kind][]bson.M)}
}

func (m *MemoryStore) IsRegisteredKind(kind models.Kind) bool {
	_, ok := m.registry.Lookup(kind)
	return ok
}

func (m *MemoryStore) Exists(ctx context.Context, kind models.Kind, id primitive.ObjectID) (bool, error) {
	_, err := m.FindByID(ctx, kind, id)
	switch err {
	case nil:
		return true, nil
	case ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (m *MemoryStore) FindMatching(_ context.Context, kind models.Kind, filter bson.D) ([]bson.M, error) {
	if !m.IsRegisteredKind(kind) {
		return nil, ErrUnknownKind
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []bson.M{}
	for _, d := range m.docs[kind] {
		if matches(d, filter) {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (m *MemoryStore) FindByID(_ context.Context, kind models.Kind, id primitive.ObjectID) (bson.M, error) {
	if !m.IsRegisteredKind(kind) {
		return nil, ErrUnknownKind
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(kind, id); i >= 0 {
		return clone(m.docs[kind][i]), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Create(_ context.Context, kind models.Kind, doc interface{}) (primitive.ObjectID, error) {
	def, ok := m.registry.Lookup(kind)
	if !ok {
		return primitive.NilObjectID, ErrUnknownKind
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("encode %s: %w", kind, err)
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return primitive.NilObjectID, fmt.Errorf("decode %s: %w", kind, err)
	}
	id, _ := d["_id"].(primitive.ObjectID)
	if id.IsZero() {
		id = primitive.NewObjectID()
		d["_id"] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(kind, id) >= 0 {
		return primitive.NilObjectID, fmt.Errorf("%w: _id %s", ErrDuplicateKey, id.Hex())
	}
	for _, fields := range def.Unique {
		filter := bson.D{}
		for _, f := range fields {
			v, present := d[f]
			if !present {
				filter = nil
				break
			}
			filter = append(filter, bson.E{Key: f, Value: v})
		}
		if filter == nil {
			continue
		}
		for _, existing := range m.docs[kind] {
			if matches(existing, filter) {
				return primitive.NilObjectID, fmt.Errorf("%w: %s %s", ErrDuplicateKey, kind, FormatFilter(filter))
			}
		}
	}
	m.docs[kind] = append(m.docs[kind], d)
	return id, nil
}

func (m *MemoryStore) DeleteByID(_ context.Context, kind models.Kind, id primitive.ObjectID) (bson.M, error) {
	if !m.IsRegisteredKind(kind) {
		return nil, ErrUnknownKind
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(kind, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	d := m.docs[kind][i]
	m.docs[kind] = append(m.docs[kind][:i], m.docs[kind][i+1:]...)
	return d, nil
}

// Len reports how many documents of a kind are stored.
func (m *MemoryStore) Len(kind models.Kind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs[kind])
}

// caller holds m.mu
func (m *MemoryStore) indexOf(kind models.Kind, id primitive.ObjectID) int {
	for i, d := range m.docs[kind] {
		if d["_id"] == id {
			return i
		}
	}
	return -1
}

func matches(d bson.M, filter bson.D) bool {
	for _, e := range filter {
		v, ok := d[e.Key]
		if !ok {
			return false
		}
		if set, isSet := e.Value.(In); isSet {
			found := false
			for _, want := range set {
				if fieldEquals(v, want) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
			continue
		}
		if !fieldEquals(v, e.Value) {
			return false
		}
	}
	return true
}

// fieldEquals follows Mongo semantics: an array field matches a scalar when
// any element equals it.
func fieldEquals(stored, want interface{}) bool {
	if arr, ok := stored.(primitive.A); ok {
		if _, wantArr := want.(primitive.A); !wantArr {
			for _, el := range arr {
				if reflect.DeepEqual(el, want) {
					return true
				}
			}
			return false
		}
	}
	return reflect.DeepEqual(stored, want)
}

func clone(d bson.M) bson.M {
	out := make(bson.M, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
