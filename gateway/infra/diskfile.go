package infra

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"rpc-gateway/gateway/domain"
)

// DiskFileStore implementa domain.FileStore gravando blobs em um diretório
// local. O id gerado é o nome do arquivo físico; o path lógico informado no
// upload fica só no FileRef devolvido.
type DiskFileStore struct {
	root string
}

func NewDiskFileStore(root string) *DiskFileStore {
	return &DiskFileStore{root: root}
}

func (s *DiskFileStore) Upload(_ context.Context, path string, content []byte) (domain.FileRef, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return domain.FileRef{}, err
	}

	id := uuid.NewString()
	if err := os.WriteFile(filepath.Join(s.root, id), content, 0o644); err != nil {
		return domain.FileRef{}, err
	}
	return domain.FileRef{ID: id, Path: path}, nil
}

// Delete remove os ids informados e devolve quantos existiam.
// Id inexistente não é erro; só não conta.
func (s *DiskFileStore) Delete(_ context.Context, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		// o id é sempre um uuid gerado aqui; o Base barra qualquer tentativa
		// de path traversal vinda do payload
		err := os.Remove(filepath.Join(s.root, filepath.Base(id)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}
