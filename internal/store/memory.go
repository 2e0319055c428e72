package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps every collection in process memory. Data is lost on
// restart. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	docs    map[string][]Document
	uniques map[string][]string
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:    make(map[string][]Document),
		uniques: make(map[string][]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Collection(name string) Collection {
	return &memoryCollection{store: m, name: name}
}

func (m *MemoryStore) EnsureUnique(ctx context.Context, collection, field string) error {
	if err := checkName("field", field); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.uniques[collection] {
		if f == field {
			return nil
		}
	}
	m.uniques[collection] = append(m.uniques[collection], field)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// conflicts reports whether fields would collide with another document on a
// unique field. skipID excludes the document being updated. Callers hold mu.
func (m *MemoryStore) conflicts(collection, skipID string, fields map[string]string) bool {
	for _, field := range m.uniques[collection] {
		v, ok := fields[field]
		if !ok {
			continue
		}
		for _, d := range m.docs[collection] {
			if d.ID != skipID && d.Fields[field] == v {
				return true
			}
		}
	}
	return false
}

type memoryCollection struct {
	store *MemoryStore
	name  string
}

func matches(d Document, f Filter) bool {
	if f.ID != "" && d.ID != f.ID {
		return false
	}
	for k, v := range f.Fields {
		got, ok := d.Fields[k]
		if !ok || got != v {
			return false
		}
	}
	return true
}

func cloneDocument(d Document) Document {
	d.Fields = copyFields(d.Fields)
	return d
}

func (c *memoryCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	for _, d := range c.store.docs[c.name] {
		if matches(d, filter) {
			return cloneDocument(d), nil
		}
	}
	return Document{}, ErrNotFound
}

func (c *memoryCollection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	out := []Document{}
	for _, d := range c.store.docs[c.name] {
		if matches(d, filter) {
			out = append(out, cloneDocument(d))
		}
	}
	return out, nil
}

func (c *memoryCollection) Insert(ctx context.Context, fields map[string]string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if err := checkFields(fields); err != nil {
		return Document{}, err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.store.conflicts(c.name, "", fields) {
		return Document{}, fmt.Errorf("insert into %s: %w", c.name, ErrDuplicate)
	}
	now := c.store.now()
	d := Document{
		ID:        NewID(),
		Fields:    copyFields(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.store.docs[c.name] = append(c.store.docs[c.name], d)
	return cloneDocument(d), nil
}

func (c *memoryCollection) Update(ctx context.Context, filter Filter, fields map[string]string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if err := checkFields(fields); err != nil {
		return Document{}, err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	docs := c.store.docs[c.name]
	for i := range docs {
		if !matches(docs[i], filter) {
			continue
		}
		if c.store.conflicts(c.name, docs[i].ID, fields) {
			return Document{}, fmt.Errorf("update %s: %w", c.name, ErrDuplicate)
		}
		for k, v := range fields {
			docs[i].Fields[k] = v
		}
		docs[i].UpdatedAt = c.store.now()
		return cloneDocument(docs[i]), nil
	}
	return Document{}, ErrNotFound
}

func (c *memoryCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	docs := c.store.docs[c.name]
	kept := docs[:0]
	var deleted int64
	for _, d := range docs {
		if matches(d, filter) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	c.store.docs[c.name] = kept
	return deleted, nil
}

var _ Store = (*MemoryStore)(nil)
