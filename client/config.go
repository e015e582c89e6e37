package client

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/rs/zerolog"
)

const (
	// DefaultAppName prefixa a chave do cache de credenciais.
	DefaultAppName = "rpc-gateway"

	DefaultFuncName = "test"
	DefaultRegion   = "ap-shanghai"
)

var (
	// ErrMissingEnvID indica a falta da opção obrigatória envId.
	ErrMissingEnvID = errors.New("envId is required")

	// ErrMissingConfiguration indica que nenhuma estratégia de transporte é
	// resolvível: sem binding direto e com envId que não é URL.
	ErrMissingConfiguration = errors.New("no gateway binding and envId is not an http(s) url")
)

// Options configura o cliente do gateway. Imutável após a resolução do
// transporte.
type Options struct {
	// EnvID é obrigatório: identificador de ambiente (quando há binding
	// direto) ou a URL HTTP(S) do endpoint de fallback.
	EnvID    string
	FuncName string
	Region   string

	// AppName nomeia a aplicação; entra na chave do cache de credenciais.
	AppName string
	// CacheDir é o diretório do cache de credenciais; vazio usa o diretório
	// de configuração do usuário.
	CacheDir string

	HTTPClient *http.Client
	Logger     zerolog.Logger
}

var urlRe = regexp.MustCompile(`^http(s)?://`)

func isURL(s string) bool { return urlRe.MatchString(s) }

func (o Options) withDefaults() Options {
	if o.AppName == "" {
		o.AppName = DefaultAppName
	}
	if o.FuncName == "" {
		o.FuncName = DefaultFuncName
	}
	if o.Region == "" {
		o.Region = DefaultRegion
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	return o
}
