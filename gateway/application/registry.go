package application

import "rpc-gateway/gateway/domain"

// CommandRegistry é uma tabela estática evento -> handler.
//
// O registro acontece na montagem do gateway; depois disso a tabela é só
// leitura, então não há trava. Comandos novos entram por Register, sem
// tocar na lógica de despacho.
type CommandRegistry struct {
	handlers map[string]domain.Handler
}

func NewRegistry() *CommandRegistry {
	return &CommandRegistry{handlers: make(map[string]domain.Handler)}
}

func (r *CommandRegistry) Register(event string, h domain.Handler) {
	r.handlers[event] = h
}

// Resolve implementa domain.Registry.
func (r *CommandRegistry) Resolve(event string) (domain.Handler, bool) {
	h, ok := r.handlers[event]
	return h, ok
}

// Events devolve os nomes registrados (útil para logs de inicialização).
func (r *CommandRegistry) Events() []string {
	out := make([]string, 0, len(r.handlers))
	for ev := range r.handlers {
		out = append(out, ev)
	}
	return out
}
