package client

import (
	"context"
	"fmt"
	"strings"

	"rpc-gateway/gateway/application"
	"rpc-gateway/gateway/domain"
)

// Client invoca operações nomeadas do gateway por um dos dois transportes.
type Client struct {
	opts      Options
	transport transport
	creds     *CredentialCache
}

// New resolve a estratégia de transporte uma única vez:
//
//   - binding direto disponível vence sempre, mesmo com EnvID em forma de URL
//   - senão, EnvID em forma de URL HTTP(S) liga o fallback HTTP
//   - senão, ErrMissingConfiguration — erro fatal de cliente, sem retry e
//     sem nenhuma chamada de rede
//
// EnvID ausente é sempre fatal, nomeando a chave que falta.
func New(opts Options, binding *application.Dispatcher) (*Client, error) {
	opts = opts.withDefaults()

	if strings.TrimSpace(opts.EnvID) == "" {
		opts.Logger.Warn().Str("option", "envId").Msg("required option is missing")
		return nil, fmt.Errorf("%s: %w", opts.AppName, ErrMissingEnvID)
	}

	c := &Client{opts: opts}

	if binding != nil {
		c.transport = directTransport{dispatcher: binding}
		return c, nil
	}

	if isURL(opts.EnvID) {
		creds, err := NewCredentialCache(opts.CacheDir, opts.AppName)
		if err != nil {
			return nil, fmt.Errorf("credential cache: %w", err)
		}
		c.creds = creds
		c.transport = &httpTransport{
			url:    opts.EnvID,
			client: opts.HTTPClient,
			creds:  creds,
			logger: opts.Logger,
		}
		return c, nil
	}

	return nil, fmt.Errorf("%s: %w", opts.AppName, ErrMissingConfiguration)
}

// Call envia o evento nomeado pelo transporte resolvido e devolve o
// envelope de resposta do gateway. Erro aqui é sempre falha de transporte;
// falha de handler vem dentro do Response, com código definido.
func (c *Client) Call(ctx context.Context, event string, data map[string]any) (*domain.Response, error) {
	return c.transport.call(ctx, event, data)
}

// Credentials expõe o cache de credenciais do transporte HTTP (nil no
// transporte direto).
func (c *Client) Credentials() *CredentialCache {
	return c.creds
}
