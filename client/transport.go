package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"rpc-gateway/gateway/application"
	"rpc-gateway/gateway/domain"
)

// transport é a estratégia física para alcançar o gateway, escolhida uma
// única vez por configuração de cliente.
type transport interface {
	call(ctx context.Context, event string, data map[string]any) (*domain.Response, error)
}

// localIdentity é a identidade usada em chamadas diretas no mesmo processo.
const localIdentity = domain.Identity("local")

type directTransport struct {
	dispatcher *application.Dispatcher
}

func (t directTransport) call(ctx context.Context, event string, data map[string]any) (*domain.Response, error) {
	res := t.dispatcher.Dispatch(ctx, localIdentity, domain.Request{Event: event, Data: data})
	return &res, nil
}

// Formato de fio do fallback HTTP. Mesmo contrato do adapter do servidor.
type wireRequest struct {
	Event       string         `json:"event"`
	Data        map[string]any `json:"data"`
	AccessToken string         `json:"accessToken,omitempty"`
}

type wireResponse struct {
	RequestID   string          `json:"requestId"`
	Result      domain.Response `json:"result"`
	AccessToken string          `json:"accessToken"`
}

type httpTransport struct {
	url    string
	client *http.Client
	creds  *CredentialCache
	logger zerolog.Logger
}

func (t *httpTransport) call(ctx context.Context, event string, data map[string]any) (*domain.Response, error) {
	body := wireRequest{Event: event, Data: data}
	if tok, ok := t.creds.Read(); ok {
		body.AccessToken = tok
	}

	raw, err := sonic.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// qualquer status fora de 200 é falha de transporte, distinta de falha
	// no envelope de resposta
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway request: unexpected status %d", resp.StatusCode)
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway response: %w", err)
	}

	var wire wireResponse
	if err := sonic.Unmarshal(out, &wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if wire.AccessToken != "" {
		if err := t.creds.Write(wire.AccessToken); err != nil {
			t.logger.Warn().Err(err).Msg("credential cache write failed")
		}
	}

	return &wire.Result, nil
}
