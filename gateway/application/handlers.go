package application

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"rpc-gateway/gateway/domain"
)

// Collection é a coleção de documentos usada pelos handlers de todo.
const Collection = "test-todos"

// UploadPath é o caminho do ativo de demonstração enviado pelo UPLOAD_FILE.
const UploadPath = "test-todos/photo.png"

// PeerFunction é a função vizinha invocada pelo TEST_FUNCTION.
const PeerFunction = "tags"

// HandlerSet agrupa os colaboradores externos dos comandos de todo.
// Cada handler executa exatamente uma operação contra um deles.
type HandlerSet struct {
	Store  domain.DocumentStore
	Files  domain.FileStore
	Caller domain.FunctionCaller
	// Asset é o conteúdo enviado pelo UPLOAD_FILE (ativo de demonstração).
	Asset  []byte
	Logger zerolog.Logger
}

// Registry monta a tabela fechada de eventos do gateway.
func (s HandlerSet) Registry() *CommandRegistry {
	reg := NewRegistry()
	reg.Register(domain.EventGetTodos, s.getTodos)
	reg.Register(domain.EventAddTodos, s.addTodos)
	reg.Register(domain.EventUpdateTodos, s.updateTodos)
	reg.Register(domain.EventRemoveTodos, s.removeTodos)
	reg.Register(domain.EventRemoveCompleted, s.removeCompleted)
	reg.Register(domain.EventChangeTodoState, s.changeTodoState)
	reg.Register(domain.EventDeleteFile, s.deleteFile)
	reg.Register(domain.EventUploadFile, s.uploadFile)
	reg.Register(domain.EventTestFunction, s.testFunction)
	return reg
}

type updateResult struct {
	Updated int64 `json:"updated"`
}

type removeResult struct {
	Deleted int64 `json:"deleted"`
}

func (s HandlerSet) getTodos(ctx context.Context, _ map[string]any) (any, error) {
	docs, err := s.Store.GetAll(ctx, Collection)
	if err != nil {
		// primeiro uso: provisiona a coleção ausente e devolve vazio em vez
		// de propagar a falha
		s.Logger.Error().Err(err).Str("collection", Collection).Msg("document store query failed")
		if cerr := s.Store.CreateCollection(ctx, Collection); cerr != nil {
			s.Logger.Error().Err(cerr).Str("collection", Collection).Msg("collection provisioning failed")
		}
		return []domain.Document{}, nil
	}
	return docs, nil
}

func (s HandlerSet) addTodos(ctx context.Context, data map[string]any) (any, error) {
	return s.Store.Add(ctx, Collection, domain.Document(data))
}

func (s HandlerSet) updateTodos(ctx context.Context, data map[string]any) (any, error) {
	n, err := s.Store.UpdateWhere(ctx, Collection, domain.Eq("id", data["id"]), domain.Document(data))
	if err != nil {
		return nil, err
	}
	return updateResult{Updated: n}, nil
}

func (s HandlerSet) removeTodos(ctx context.Context, data map[string]any) (any, error) {
	n, err := s.Store.RemoveWhere(ctx, Collection, domain.Eq("id", data["id"]))
	if err != nil {
		return nil, err
	}
	return removeResult{Deleted: n}, nil
}

func (s HandlerSet) removeCompleted(ctx context.Context, _ map[string]any) (any, error) {
	n, err := s.Store.RemoveWhere(ctx, Collection, domain.Eq("completed", true))
	if err != nil {
		return nil, err
	}
	return removeResult{Deleted: n}, nil
}

func (s HandlerSet) changeTodoState(ctx context.Context, data map[string]any) (any, error) {
	// a condição completed in [true,false] casa com todo registro que tenha
	// o campo; comportamento observado do sistema de referência
	n, err := s.Store.UpdateWhere(ctx, Collection,
		domain.In("completed", true, false),
		domain.Document{"completed": data["completed"]})
	if err != nil {
		return nil, err
	}
	return updateResult{Updated: n}, nil
}

func (s HandlerSet) deleteFile(ctx context.Context, data map[string]any) (any, error) {
	ids := stringList(data["ids"])
	n, err := s.Files.Delete(ctx, ids)
	if err != nil {
		return nil, err
	}
	return removeResult{Deleted: int64(n)}, nil
}

func (s HandlerSet) uploadFile(ctx context.Context, _ map[string]any) (any, error) {
	return s.Files.Upload(ctx, UploadPath, s.Asset)
}

func (s HandlerSet) testFunction(ctx context.Context, _ map[string]any) (any, error) {
	if s.Caller == nil {
		return nil, errors.New("no function caller configured")
	}
	return s.Caller.Call(ctx, PeerFunction, map[string]any{"x": 1, "y": 2})
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if str, ok := it.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
