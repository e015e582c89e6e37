package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"rpc-gateway/gateway/domain"
)

// Dispatcher é o ponto de entrada único do gateway: um despacho multiplexa
// todos os comandos nomeados atrás de uma invocação física.
//
// Contrato: Dispatch nunca devolve erro. Toda falha — teto estourado,
// evento desconhecido, erro ou pânico de handler — vira um Response com
// código definido. O erro estruturado fica no log; o contrato externo
// carrega apenas a mensagem.
type Dispatcher struct {
	Guard    Guard
	Registry domain.Registry
	// Stats é opcional; gravação é best-effort e nunca derruba a requisição.
	Stats  domain.StatsStore
	Logger zerolog.Logger
}

// Dispatch executa o ciclo completo: throttle -> resolução -> handler ->
// normalização. O envelope de entrada e o de saída são sempre logados.
func (d *Dispatcher) Dispatch(ctx context.Context, id domain.Identity, req domain.Request) (res domain.Response) {
	d.Logger.Info().
		Str("identity", string(id)).
		Str("event", req.Event).
		Interface("data", req.Data).
		Msg("request received")

	defer func() {
		if r := recover(); r != nil {
			d.Logger.Error().
				Str("event", req.Event).
				Interface("panic", r).
				Msg("handler panicked")
			res = domain.Response{Code: domain.CodeFail, Message: fmt.Sprintf("panic: %v", r)}
		}
		d.Logger.Info().
			Str("event", req.Event).
			Int("code", int(res.Code)).
			Str("message", res.Message).
			Msg("request finished")
	}()

	dec := d.Guard.Check(id)
	d.record(ctx, id, req.Event, dec.Allowed)
	if !dec.Allowed {
		return domain.Response{Code: domain.CodeFail, Message: domain.ErrTooManyRequests.Error()}
	}

	if req.Event == "" {
		// ping/keep-alive: evento ausente é o único caso em que nome não
		// definido não é erro
		return domain.Response{Code: domain.CodeSuccess, Message: "success"}
	}

	h, ok := d.Registry.Resolve(req.Event)
	if !ok {
		return domain.Response{Code: domain.CodeEventNotExist, Message: "event does not exist"}
	}

	data, err := h(ctx, req.Data)
	if err != nil {
		d.Logger.Error().
			Err(err).
			Str("kind", failureKind(err)).
			Str("event", req.Event).
			Interface("data", req.Data).
			Msg("handler failed")
		return domain.Response{Code: domain.CodeFail, Message: err.Error()}
	}

	return domain.Response{Code: domain.CodeSuccess, Message: "success", Data: data}
}

func (d *Dispatcher) record(ctx context.Context, id domain.Identity, event string, allowed bool) {
	if d.Stats == nil {
		return
	}
	err := d.Stats.Record(ctx, domain.StatsEvent{
		Identity: id,
		Allowed:  allowed,
		Event:    event,
		At:       time.Now(),
	})
	if err != nil {
		d.Logger.Warn().Err(err).Msg("stats record failed")
	}
}

// failureKind etiqueta a classe do erro para observabilidade interna.
// O contrato externo continua só com a mensagem.
func failureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrCollectionNotFound):
		return "collection-not-found"
	case errors.Is(err, domain.ErrFileNotFound):
		return "file-not-found"
	default:
		return "handler"
	}
}
