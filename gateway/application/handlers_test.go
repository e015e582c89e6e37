package application

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpc-gateway/gateway/domain"
	"rpc-gateway/gateway/infra"
)

type fakeFileStore struct {
	uploaded map[string][]byte
	deleted  []string
}

func (f *fakeFileStore) Upload(_ context.Context, path string, content []byte) (domain.FileRef, error) {
	if f.uploaded == nil {
		f.uploaded = make(map[string][]byte)
	}
	f.uploaded[path] = content
	return domain.FileRef{ID: "f1", Path: path}, nil
}

func (f *fakeFileStore) Delete(_ context.Context, ids []string) (int, error) {
	f.deleted = append(f.deleted, ids...)
	return len(ids), nil
}

type fakeCaller struct {
	name string
	data map[string]any
}

func (c *fakeCaller) Call(_ context.Context, name string, data map[string]any) (any, error) {
	c.name = name
	c.data = data
	return map[string]any{"ok": true}, nil
}

func provisionedSet(t *testing.T) (HandlerSet, *infra.MemoryDocumentStore) {
	t.Helper()
	store := infra.NewMemoryDocumentStore(Collection)
	return HandlerSet{Store: store, Files: &fakeFileStore{}, Logger: zerolog.Nop()}, store
}

func dispatch(t *testing.T, s HandlerSet, event string, data map[string]any) (any, error) {
	t.Helper()
	h, ok := s.Registry().Resolve(event)
	require.True(t, ok, "event %s must be registered", event)
	return h(context.Background(), data)
}

func TestGetTodos_ProvisionsMissingCollection(t *testing.T) {
	store := infra.NewMemoryDocumentStore()
	s := HandlerSet{Store: store, Logger: zerolog.Nop()}

	out, err := dispatch(t, s, domain.EventGetTodos, nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	// a coleção passou a existir: a próxima leitura vai direto
	_, err = store.GetAll(context.Background(), Collection)
	require.NoError(t, err)
}

func TestAddThenGetTodos(t *testing.T) {
	s, _ := provisionedSet(t)

	out, err := dispatch(t, s, domain.EventAddTodos, map[string]any{
		"id": "a1", "text": "buy milk", "completed": false,
	})
	require.NoError(t, err)
	add, ok := out.(domain.AddResult)
	require.True(t, ok)
	assert.NotEmpty(t, add.ID)

	got, err := dispatch(t, s, domain.EventGetTodos, nil)
	require.NoError(t, err)
	docs, ok := got.([]domain.Document)
	require.True(t, ok)
	require.Len(t, docs, 1)
	assert.Equal(t, "buy milk", docs[0]["text"])
}

func TestUpdateTodos_FiltersByID(t *testing.T) {
	s, _ := provisionedSet(t)

	_, err := dispatch(t, s, domain.EventAddTodos, map[string]any{"id": "a1", "text": "old"})
	require.NoError(t, err)
	_, err = dispatch(t, s, domain.EventAddTodos, map[string]any{"id": "a2", "text": "other"})
	require.NoError(t, err)

	out, err := dispatch(t, s, domain.EventUpdateTodos, map[string]any{"id": "a1", "text": "new"})
	require.NoError(t, err)
	assert.Equal(t, updateResult{Updated: 1}, out)
}

func TestRemoveTodos_FiltersByID(t *testing.T) {
	s, _ := provisionedSet(t)

	_, err := dispatch(t, s, domain.EventAddTodos, map[string]any{"id": "a1"})
	require.NoError(t, err)

	out, err := dispatch(t, s, domain.EventRemoveTodos, map[string]any{"id": "a1"})
	require.NoError(t, err)
	assert.Equal(t, removeResult{Deleted: 1}, out)
}

func TestRemoveCompleted_ExcludesFromNextGet(t *testing.T) {
	s, _ := provisionedSet(t)

	_, err := dispatch(t, s, domain.EventAddTodos, map[string]any{"id": "a1", "completed": true})
	require.NoError(t, err)
	_, err = dispatch(t, s, domain.EventAddTodos, map[string]any{"id": "a2", "completed": false})
	require.NoError(t, err)

	out, err := dispatch(t, s, domain.EventRemoveCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, removeResult{Deleted: 1}, out)

	got, err := dispatch(t, s, domain.EventGetTodos, nil)
	require.NoError(t, err)
	docs := got.([]domain.Document)
	require.Len(t, docs, 1)
	assert.Equal(t, "a2", docs[0]["id"])
}

func TestChangeTodoState_MatchesEveryRecordWithCompleted(t *testing.T) {
	s, _ := provisionedSet(t)

	_, err := dispatch(t, s, domain.EventAddTodos, map[string]any{"id": "a1", "completed": true})
	require.NoError(t, err)
	_, err = dispatch(t, s, domain.EventAddTodos, map[string]any{"id": "a2", "completed": false})
	require.NoError(t, err)

	// completed in [true,false] casa com todos; comportamento observado do
	// sistema de referência
	out, err := dispatch(t, s, domain.EventChangeTodoState, map[string]any{"completed": true})
	require.NoError(t, err)
	assert.Equal(t, updateResult{Updated: 2}, out)
}

func TestDeleteFile_DelegatesIDs(t *testing.T) {
	files := &fakeFileStore{}
	s := HandlerSet{Store: infra.NewMemoryDocumentStore(Collection), Files: files, Logger: zerolog.Nop()}

	out, err := dispatch(t, s, domain.EventDeleteFile, map[string]any{"ids": []any{"f1", "f2"}})
	require.NoError(t, err)
	assert.Equal(t, removeResult{Deleted: 2}, out)
	assert.Equal(t, []string{"f1", "f2"}, files.deleted)
}

func TestUploadFile_SendsDemoAsset(t *testing.T) {
	files := &fakeFileStore{}
	s := HandlerSet{
		Store:  infra.NewMemoryDocumentStore(Collection),
		Files:  files,
		Asset:  []byte("png-bytes"),
		Logger: zerolog.Nop(),
	}

	out, err := dispatch(t, s, domain.EventUploadFile, nil)
	require.NoError(t, err)
	ref, ok := out.(domain.FileRef)
	require.True(t, ok)
	assert.Equal(t, UploadPath, ref.Path)
	assert.Equal(t, []byte("png-bytes"), files.uploaded[UploadPath])
}

func TestTestFunction_CallsPeer(t *testing.T) {
	caller := &fakeCaller{}
	s := HandlerSet{Store: infra.NewMemoryDocumentStore(Collection), Caller: caller, Logger: zerolog.Nop()}

	out, err := dispatch(t, s, domain.EventTestFunction, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, out)
	assert.Equal(t, PeerFunction, caller.name)
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, caller.data)
}

func TestTestFunction_NoCallerFails(t *testing.T) {
	s, _ := provisionedSet(t)

	_, err := dispatch(t, s, domain.EventTestFunction, nil)
	require.Error(t, err)
}

func TestAddTodos_MissingCollectionSurfacesError(t *testing.T) {
	s := HandlerSet{Store: infra.NewMemoryDocumentStore(), Logger: zerolog.Nop()}

	_, err := dispatch(t, s, domain.EventAddTodos, map[string]any{"id": "a1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCollectionNotFound))
}
