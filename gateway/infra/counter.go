package infra

import (
	"sync"

	"rpc-gateway/gateway/domain"
)

// CounterStore é a implementação em memória do contador vitalício por
// identidade. Sem TTL e sem reset: a contagem só cresce enquanto o processo
// viver.
//
// O estado é injetado (não é global escondido) para que testes construam um
// contador novo por caso.
type CounterStore struct {
	mu     sync.Mutex
	counts map[domain.Identity]int64
}

func NewCounterStore() *CounterStore {
	return &CounterStore{counts: make(map[domain.Identity]int64)}
}

// Incr implementa domain.CounterStore. Devolve o valor pós-incremento.
func (s *CounterStore) Incr(id domain.Identity) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[id]++
	return s.counts[id]
}

// Count devolve a contagem atual sem incrementar (observabilidade/testes).
func (s *CounterStore) Count(id domain.Identity) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[id]
}
