package docstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var _ Store = (*Memory)(nil)

// Memory is an in-memory Store with the same semantics as the Postgres
// implementation: insertion order is preserved and FindOneAndUpdate is
// atomic under the store mutex. It backs unit tests.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memCollection
}

type memCollection struct {
	order []string // ids in insertion order
	docs  map[string]map[string]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

func (m *Memory) collection(name string) *memCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{docs: make(map[string]map[string]any)}
		m.collections[name] = c
	}
	return c
}

// Insert marshals doc and stores it under a fresh UUID.
func (m *Memory) Insert(_ context.Context, collection string, doc any) (string, error) {
	body, err := toMap(doc)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	c := m.collection(collection)
	c.order = append(c.order, id)
	c.docs[id] = body
	return id, nil
}

// Find returns matching documents in insertion order.
func (m *Memory) Find(_ context.Context, collection string, filter Filter, limit int) ([]Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	var out []Doc
	for _, id := range c.order {
		if !matches(id, c.docs[id], filter) {
			continue
		}
		d, err := toDoc(id, c.docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// FindOne returns the first matching document or ErrNotFound.
func (m *Memory) FindOne(ctx context.Context, collection string, filter Filter) (*Doc, error) {
	docs, err := m.Find(ctx, collection, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return &docs[0], nil
}

// FindOneAndUpdate sets fields on the first matching document under the
// store mutex and returns the updated document.
func (m *Memory) FindOneAndUpdate(_ context.Context, collection string, filter Filter, set Fields) (*Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	for _, id := range c.order {
		if !matches(id, c.docs[id], filter) {
			continue
		}
		for k, v := range set {
			c.docs[id][k] = normalize(v)
		}
		d, err := toDoc(id, c.docs[id])
		if err != nil {
			return nil, err
		}
		return &d, nil
	}
	return nil, ErrNotFound
}

// Count returns the number of matching documents.
func (m *Memory) Count(_ context.Context, collection string, filter Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	var n int64
	for _, id := range c.order {
		if matches(id, c.docs[id], filter) {
			n++
		}
	}
	return n, nil
}

func matches(id string, doc map[string]any, filter Filter) bool {
	for k, v := range filter {
		if k == IDField {
			if id != v {
				return false
			}
			continue
		}
		got, ok := doc[k]
		if !ok || got != normalize(v) {
			return false
		}
	}
	return true
}

// normalize round-trips a value through JSON so filter values compare equal
// to stored ones regardless of the caller's Go type.
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func toMap(doc any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errors.Wrap(err, "document must be a JSON object")
	}
	return body, nil
}

func toDoc(id string, body map[string]any) (Doc, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return Doc{}, errors.Wrap(err, "marshal document")
	}
	return Doc{ID: id, Data: raw}, nil
}
