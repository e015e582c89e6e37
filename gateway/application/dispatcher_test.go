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

func testDispatcher(reg domain.Registry, ceiling int64) *Dispatcher {
	return &Dispatcher{
		Guard:    Guard{Counters: infra.NewCounterStore(), Ceiling: ceiling, Logger: zerolog.Nop()},
		Registry: reg,
		Logger:   zerolog.Nop(),
	}
}

func TestDispatch_EmptyEventIsPing(t *testing.T) {
	called := false
	reg := NewRegistry()
	reg.Register("ANY", func(context.Context, map[string]any) (any, error) {
		called = true
		return nil, nil
	})

	res := testDispatcher(reg, 10).Dispatch(context.Background(), "k", domain.Request{})

	assert.Equal(t, domain.CodeSuccess, res.Code)
	assert.Equal(t, "success", res.Message)
	assert.Nil(t, res.Data)
	assert.False(t, called, "ping must not invoke any handler")
}

func TestDispatch_UnknownEvent(t *testing.T) {
	res := testDispatcher(NewRegistry(), 10).Dispatch(context.Background(), "k",
		domain.Request{Event: "NOPE"})

	assert.Equal(t, domain.CodeEventNotExist, res.Code)
	assert.NotEmpty(t, res.Message)
}

func TestDispatch_HandlerErrorBecomesFail(t *testing.T) {
	reg := NewRegistry()
	reg.Register("BOOM", func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("boom")
	})

	res := testDispatcher(reg, 10).Dispatch(context.Background(), "k",
		domain.Request{Event: "BOOM"})

	assert.Equal(t, domain.CodeFail, res.Code)
	assert.Equal(t, "boom", res.Message)
	assert.Nil(t, res.Data)
}

func TestDispatch_HandlerPanicDoesNotCrash(t *testing.T) {
	reg := NewRegistry()
	reg.Register("PANIC", func(context.Context, map[string]any) (any, error) {
		panic("kaboom")
	})

	res := testDispatcher(reg, 10).Dispatch(context.Background(), "k",
		domain.Request{Event: "PANIC"})

	assert.Equal(t, domain.CodeFail, res.Code)
	assert.Contains(t, res.Message, "kaboom")
}

func TestDispatch_HandlerSuccessAttachesData(t *testing.T) {
	reg := NewRegistry()
	reg.Register("ECHO", func(_ context.Context, data map[string]any) (any, error) {
		return data["x"], nil
	})

	res := testDispatcher(reg, 10).Dispatch(context.Background(), "k",
		domain.Request{Event: "ECHO", Data: map[string]any{"x": "y"}})

	assert.Equal(t, domain.CodeSuccess, res.Code)
	assert.Equal(t, "success", res.Message)
	assert.Equal(t, "y", res.Data)
}

func TestDispatch_ThrottleShortCircuits(t *testing.T) {
	called := 0
	reg := NewRegistry()
	reg.Register("ECHO", func(context.Context, map[string]any) (any, error) {
		called++
		return nil, nil
	})

	d := testDispatcher(reg, 1)
	req := domain.Request{Event: "ECHO"}

	first := d.Dispatch(context.Background(), "k", req)
	require.Equal(t, domain.CodeSuccess, first.Code)

	second := d.Dispatch(context.Background(), "k", req)
	assert.Equal(t, domain.CodeFail, second.Code)
	assert.Equal(t, "Too Many Requests", second.Message)
	assert.Equal(t, 1, called, "blocked request must not reach the handler")
}

func TestDispatch_RecordsStats(t *testing.T) {
	stats := infra.NewMemoryStatsStore()

	d := testDispatcher(NewRegistry(), 1)
	d.Stats = stats

	d.Dispatch(context.Background(), "k", domain.Request{})
	d.Dispatch(context.Background(), "k", domain.Request{})

	total := stats.Total()
	assert.Equal(t, int64(1), total.Allowed)
	assert.Equal(t, int64(1), total.Denied)
}
