package application

import (
	"time"

	"github.com/rs/zerolog"

	"rpc-gateway/gateway/domain"
)

// DefaultCeiling é o teto de requisições por identidade na configuração de
// referência.
const DefaultCeiling = 250

// Guard concentra a regra do teto vitalício de requisições por identidade.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas incrementa a
// contagem e devolve uma decisão. O incremento acontece exatamente uma vez
// por requisição, inclusive nas bloqueadas.
type Guard struct {
	Counters domain.CounterStore
	Ceiling  int64
	Logger   zerolog.Logger
}

// Check decide se a identidade ainda pode chamar o gateway.
// A (teto)-ésima requisição passa; a (teto+1)-ésima bloqueia.
func (g Guard) Check(id domain.Identity) domain.Decision {
	if g.Counters == nil {
		return domain.Decision{Allowed: true}
	}
	ceiling := g.Ceiling
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	n := g.Counters.Incr(id)
	if n > ceiling {
		g.Logger.Warn().
			Str("identity", string(id)).
			Int64("count", n).
			Int64("ceiling", ceiling).
			Msg("request ceiling exceeded")
		return domain.Decision{Allowed: false, Count: n}
	}
	g.Logger.Debug().
		Str("identity", string(id)).
		Int64("count", n).
		Msg("request count")
	return domain.Decision{Allowed: true, Count: n}
}

// RateService concentra a regra de aplicação do limite de rajada
// (token bucket por identidade). É uma camada opcional na frente do
// gateway; o teto vitalício do Guard continua valendo sozinho.
//
// Ele não sabe nada sobre HTTP, apenas retorna uma decisão.
type RateService struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (s RateService) Decide(id domain.Identity) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(id)
	if lim == nil {
		return domain.Decision{Allowed: true}
	}
	if lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}
