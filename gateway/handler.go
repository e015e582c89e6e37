package gateway

import (
	"context"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rpc-gateway/gateway/application"
	"rpc-gateway/gateway/domain"
)

// TokenRotator emite um accessToken renovado para acompanhar a resposta.
// É opcional: sem rotator, o corpo segue sem o campo.
type TokenRotator interface {
	Rotate(ctx context.Context, current string) (string, error)
}

type Options struct {
	Dispatcher *application.Dispatcher

	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool

	// Rotator é opcional; quando presente, um token renovado viaja no corpo
	// da resposta e o cliente o persiste no cache de credenciais.
	Rotator TokenRotator

	// Region é opcional; traduz o IP do chamador em localidade, só para log.
	Region func(ip string) string

	Metrics *Metrics
	Logger  zerolog.Logger
}

type wireRequest struct {
	Event       string         `json:"event"`
	Data        map[string]any `json:"data"`
	AccessToken string         `json:"accessToken"`
}

type wireResponse struct {
	RequestID   string          `json:"requestId"`
	Result      domain.Response `json:"result"`
	AccessToken string          `json:"accessToken,omitempty"`
}

// Handler devolve o endpoint físico único do gateway.
//
// Resultado de despacho é sempre 200; status não-200 aqui significa falha
// de transporte (método errado, corpo malformado), nunca falha de handler.
func Handler(opts Options) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		var req wireRequest
		if len(body) > 0 {
			if err := sonic.Unmarshal(body, &req); err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
		}

		id := opts.KeyFn(r)
		if opts.Region != nil {
			if loc := opts.Region(string(id)); loc != "" {
				opts.Logger.Info().Str("identity", string(id)).Str("region", loc).Msg("caller region")
			}
		}

		res := opts.Dispatcher.Dispatch(r.Context(), id, domain.Request{Event: req.Event, Data: req.Data})
		opts.Metrics.Observe(req.Event, res.Code)

		out := wireResponse{RequestID: uuid.NewString(), Result: res}
		if opts.Rotator != nil {
			tok, err := opts.Rotator.Rotate(r.Context(), req.AccessToken)
			if err != nil {
				opts.Logger.Warn().Err(err).Msg("token rotation failed")
			} else {
				out.AccessToken = tok
			}
		}

		raw, err := sonic.Marshal(out)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	})
}
