package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão de throttle tomada pelo gateway.
//
// Ele é propositalmente agnóstico de transporte: Event é o nome lógico do
// comando, não um path HTTP.
//
// Observação: cuidado com cardinalidade (salvar Identity sem controle pode
// explodir o número de chaves em uma base como Redis).
type StatsEvent struct {
	Identity Identity
	Allowed  bool

	Event string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do gateway.
//
// Implementações podem armazenar em Redis, memória, etc.
// O despachante trata erro como best-effort (não derruba a requisição).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
