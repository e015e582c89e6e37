package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpc-gateway/gateway/application"
	"rpc-gateway/gateway/domain"
	"rpc-gateway/gateway/infra"
)

func localDispatcher() *application.Dispatcher {
	set := application.HandlerSet{
		Store:  infra.NewMemoryDocumentStore(application.Collection),
		Logger: zerolog.Nop(),
	}
	return &application.Dispatcher{
		Guard:    application.Guard{Counters: infra.NewCounterStore(), Logger: zerolog.Nop()},
		Registry: set.Registry(),
		Logger:   zerolog.Nop(),
	}
}

func TestNew_MissingEnvIDIsFatal(t *testing.T) {
	_, err := New(Options{Logger: zerolog.Nop()}, localDispatcher())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingEnvID))
}

func TestNew_NoBindingAndPlainEnvIDIsMissingConfiguration(t *testing.T) {
	_, err := New(Options{EnvID: "env-prod-42", Logger: zerolog.Nop()}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingConfiguration))
}

func TestNew_DirectBindingWinsOverURL(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c, err := New(Options{EnvID: srv.URL, Logger: zerolog.Nop()}, localDispatcher())
	require.NoError(t, err)

	res, err := c.Call(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, res.Code)
	assert.Equal(t, 0, hits, "direct binding must not touch the network")
	assert.Nil(t, c.Credentials())
}

func TestCall_HTTPFallbackSendsCachedTokenAndRotates(t *testing.T) {
	dir := t.TempDir()

	var seenToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req wireRequest
		require.NoError(t, sonic.Unmarshal(body, &req))
		seenToken = req.AccessToken

		out := wireResponse{
			RequestID:   "r1",
			Result:      domain.Response{Code: domain.CodeSuccess, Message: "success"},
			AccessToken: "rotated-token",
		}
		raw, _ := sonic.Marshal(out)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	c, err := New(Options{EnvID: srv.URL, CacheDir: dir, Logger: zerolog.Nop()}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Credentials().Write("cached-token"))

	res, err := c.Call(context.Background(), domain.EventGetTodos, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSuccess, res.Code)
	assert.Equal(t, "cached-token", seenToken)

	tok, ok := c.Credentials().Read()
	require.True(t, ok)
	assert.Equal(t, "rotated-token", tok)
}

func TestCall_NonOKStatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(Options{EnvID: srv.URL, CacheDir: t.TempDir(), Logger: zerolog.Nop()}, nil)
	require.NoError(t, err)

	_, err = c.Call(context.Background(), domain.EventGetTodos, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}
