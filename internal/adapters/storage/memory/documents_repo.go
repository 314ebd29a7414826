package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"infant-care-log/internal/domain/documents"
)

var ErrNotFound = documents.ErrNotFound

type documentRepo struct {
	mu           sync.RWMutex
	byCollection map[string]map[string]documents.Document
}

func NewDocumentRepo() documents.Repository {
	return &documentRepo{
		byCollection: make(map[string]map[string]documents.Document),
	}
}

func (r *documentRepo) Create(ctx context.Context, d documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.Key) == "" {
		return errors.New("document key required")
	}
	docs, ok := r.byCollection[d.Collection]
	if !ok {
		docs = make(map[string]documents.Document)
		r.byCollection[d.Collection] = docs
	}
	if _, exists := docs[d.Key]; exists {
		return errors.New("document already exists")
	}
	docs[d.Key] = d
	return nil
}

func (r *documentRepo) Get(ctx context.Context, collection, key string) (documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byCollection[collection][key]
	if !ok {
		return documents.Document{}, ErrNotFound
	}
	return d, nil
}

func (r *documentRepo) List(ctx context.Context, collection string) ([]documents.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := r.byCollection[collection]
	out := make([]documents.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out, nil
}
