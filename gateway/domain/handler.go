package domain

import "context"

// Handler é a unidade de lógica associada a um nome de evento.
// Recebe o payload da requisição e devolve dados ou falha.
// Cada handler executa exatamente uma operação no backend externo.
type Handler func(ctx context.Context, data map[string]any) (any, error)

// Registry resolve um nome de evento para o handler registrado.
//
// A implementação é uma tabela estática montada na inicialização;
// comandos novos entram por registro, sem tocar na lógica de despacho.
type Registry interface {
	Resolve(event string) (Handler, bool)
}
