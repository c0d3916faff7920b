// Package memory is an in-process backend used in development mode and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"docapp/internal/domain/backend"
)

// DocumentStore keeps documents in maps. Set stores a copy; Get and Query
// return copies.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]backend.Fields
	now         func() time.Time
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]backend.Fields),
		now:         time.Now,
	}
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (backend.Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return copyFields(doc), nil
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, fields backend.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]backend.Fields)
		s.collections[collection] = docs
	}
	docs[id] = backend.ResolveServerTimestamps(fields, s.now().UTC())
	return nil
}

// Query returns matches ordered by document ID
func (s *DocumentStore) Query(ctx context.Context, collection, field string, value any) ([]backend.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []backend.Document
	for id, fields := range s.collections[collection] {
		if v, ok := fields[field]; ok && v == value {
			docs = append(docs, backend.Document{ID: id, Fields: copyFields(fields)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func copyFields(fields backend.Fields) backend.Fields {
	out := make(backend.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
