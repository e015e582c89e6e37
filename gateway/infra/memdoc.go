package infra

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"rpc-gateway/gateway/domain"
)

// MemoryDocumentStore é um armazém de documentos em memória.
// Útil para testes e desenvolvimento.
//
// Como no backend gerenciado real, coleções precisam existir antes do uso:
// operação sobre coleção ausente devolve domain.ErrCollectionNotFound.
type MemoryDocumentStore struct {
	mu          sync.Mutex
	collections map[string][]domain.Document
}

func NewMemoryDocumentStore(collections ...string) *MemoryDocumentStore {
	s := &MemoryDocumentStore{collections: make(map[string][]domain.Document)}
	for _, c := range collections {
		s.collections[c] = nil
	}
	return s
}

func (s *MemoryDocumentStore) GetAll(_ context.Context, collection string) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%q: %w", collection, domain.ErrCollectionNotFound)
	}
	out := make([]domain.Document, len(docs))
	for i, d := range docs {
		out[i] = cloneDoc(d)
	}
	return out, nil
}

func (s *MemoryDocumentStore) Add(_ context.Context, collection string, doc domain.Document) (domain.AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection]; !ok {
		return domain.AddResult{}, fmt.Errorf("%q: %w", collection, domain.ErrCollectionNotFound)
	}

	stored := cloneDoc(doc)
	id := uuid.NewString()
	stored["_id"] = id
	s.collections[collection] = append(s.collections[collection], stored)
	return domain.AddResult{ID: id}, nil
}

func (s *MemoryDocumentStore) UpdateWhere(_ context.Context, collection string, cond domain.Condition, patch domain.Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		return 0, fmt.Errorf("%q: %w", collection, domain.ErrCollectionNotFound)
	}

	var n int64
	for _, d := range docs {
		if !cond.Matches(d) {
			continue
		}
		for k, v := range patch {
			if k == "_id" {
				continue
			}
			d[k] = v
		}
		n++
	}
	return n, nil
}

func (s *MemoryDocumentStore) RemoveWhere(_ context.Context, collection string, cond domain.Condition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		return 0, fmt.Errorf("%q: %w", collection, domain.ErrCollectionNotFound)
	}

	kept := docs[:0]
	var n int64
	for _, d := range docs {
		if cond.Matches(d) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	s.collections[collection] = kept
	return n, nil
}

// CreateCollection provisiona a coleção. Idempotente: criar uma coleção já
// existente não é erro e não apaga documentos.
func (s *MemoryDocumentStore) CreateCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = nil
	}
	return nil
}

func cloneDoc(d domain.Document) domain.Document {
	out := make(domain.Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
