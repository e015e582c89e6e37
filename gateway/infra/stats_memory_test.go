package infra

import (
	"context"
	"testing"

	"rpc-gateway/gateway/domain"
)

func TestMemoryStatsStore_RecordAccumulates(t *testing.T) {
	s := NewMemoryStatsStore()
	ctx := context.Background()

	_ = s.Record(ctx, domain.StatsEvent{Identity: "a", Allowed: true, Event: "GET_TODOS"})
	_ = s.Record(ctx, domain.StatsEvent{Identity: "a", Allowed: true, Event: "GET_TODOS"})
	_ = s.Record(ctx, domain.StatsEvent{Identity: "b", Allowed: false, Event: "ADD_TODOS"})

	total := s.Total()
	if total.Allowed != 2 || total.Denied != 1 {
		t.Fatalf("unexpected totals: %+v", total)
	}

	byEvent := s.ByEvent()
	if byEvent["GET_TODOS"].Allowed != 2 {
		t.Fatalf("expected 2 allowed for GET_TODOS, got %+v", byEvent["GET_TODOS"])
	}
	if byEvent["ADD_TODOS"].Denied != 1 {
		t.Fatalf("expected 1 denied for ADD_TODOS, got %+v", byEvent["ADD_TODOS"])
	}
}

func TestMemoryStatsStore_TracksKeysWhenEnabled(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackKeys(true))

	_ = s.Record(context.Background(), domain.StatsEvent{Identity: "a", Allowed: true, Event: "GET_TODOS"})

	if s.ByKey()["a"].Allowed != 1 {
		t.Fatalf("expected key tracking for a, got %+v", s.ByKey())
	}
}

func TestMemoryStatsStore_IgnoresKeysByDefault(t *testing.T) {
	s := NewMemoryStatsStore()

	_ = s.Record(context.Background(), domain.StatsEvent{Identity: "a", Allowed: true, Event: "GET_TODOS"})

	if len(s.ByKey()) != 0 {
		t.Fatalf("expected no key tracking by default, got %+v", s.ByKey())
	}
}
