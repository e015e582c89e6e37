package gateway

import (
	"context"

	"github.com/google/uuid"
)

// UUIDRotator emite um token opaco novo a cada resposta. Serve para girar a
// credencial do cliente HTTP; validação do token é problema do backend de
// identidade, não deste adapter.
type UUIDRotator struct{}

func (UUIDRotator) Rotate(_ context.Context, _ string) (string, error) {
	return uuid.NewString(), nil
}
