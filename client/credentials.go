package client

import (
	"os"
	"path/filepath"
	"strings"
)

// CredentialCache persiste o access token do fallback HTTP entre
// invocações e entre processos. É um memo de passagem: sem expiração,
// validade do token é problema do backend.
//
// O arquivo fica em <dir>/<appName>-access-token.
type CredentialCache struct {
	dir     string
	appName string
}

// NewCredentialCache cria o cache. dir vazio usa o diretório de
// configuração do usuário.
func NewCredentialCache(dir, appName string) (*CredentialCache, error) {
	if appName == "" {
		appName = DefaultAppName
	}
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, appName)
	}
	return &CredentialCache{dir: dir, appName: appName}, nil
}

func (c *CredentialCache) path() string {
	return filepath.Join(c.dir, c.appName+"-access-token")
}

// Read devolve o token persistido, se houver.
func (c *CredentialCache) Read() (string, bool) {
	raw, err := os.ReadFile(c.path())
	if err != nil {
		return "", false
	}
	tok := strings.TrimSpace(string(raw))
	if tok == "" {
		return "", false
	}
	return tok, true
}

// Write persiste o token, substituindo o anterior.
func (c *CredentialCache) Write(token string) error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path(), []byte(token), 0o600)
}
