package domain

import "time"

// Identity identifica o chamador para fins de throttle (ex: IP, API key).
// É uma string opaca: nenhuma semântica de sessão ou login está associada.
type Identity string

// CounterStore mantém a contagem vitalícia de requisições por identidade.
//
// Incr devolve o valor pós-incremento. Não há decaimento nem janela:
// o contador só cresce durante a vida do processo.
type CounterStore interface {
	Incr(id Identity) int64
}

// Limiter representa algo que pode decidir se uma ação é permitida agora.
//
// Observação: a implementação pode ser token-bucket, leaky-bucket, etc.
// A camada de infra pode usar libs como golang.org/x/time/rate.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por identidade.
// A implementação pode manter cache, TTL, etc.
type LimiterStore interface {
	Get(Identity) Limiter
}

// Decision é o resultado de uma checagem de throttle.
type Decision struct {
	Allowed bool
	// Count é a contagem pós-incremento da identidade (apenas para o
	// contador vitalício; zero quando não se aplica).
	Count int64
	// RetryAfter é o valor recomendado para Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
