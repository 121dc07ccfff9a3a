package ledger

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rangebook/rangebook/internal/domain"
)

func ticket(id string) domain.Ticket {
	return domain.Ticket{
		ID:        id,
		Legs:      []domain.Leg{{AssetID: "btc", Timeframe: "24-hour", Lower: 49500, Upper: 50500, Probability: 0.25, Odds: 3.72}},
		Stake:     100,
		Odds:      3.72,
		Result:    domain.TicketResultPending,
		CreatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecord_MostRecentFirst(t *testing.T) {
	l := New()

	l.Record(ticket("first"))
	l.Record(ticket("second"))
	l.Record(ticket("third"))

	got := l.History()
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("History() has %d tickets, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("History()[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestHistory_IdempotentWithoutRecord(t *testing.T) {
	l := New()
	l.Record(ticket("a"))
	l.Record(ticket("b"))

	first := l.History()
	second := l.History()
	if !reflect.DeepEqual(first, second) {
		t.Error("consecutive History() calls returned different sequences")
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	l := New()
	l.Record(ticket("a"))

	got := l.History()
	got[0].ID = "mutated"

	if l.History()[0].ID != "a" {
		t.Error("mutating the History() result changed the ledger")
	}
}

func TestPreload(t *testing.T) {
	l := New()
	l.Preload([]domain.Ticket{ticket("newest"), ticket("oldest")})

	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if got := l.History(); got[0].ID != "newest" || got[1].ID != "oldest" {
		t.Errorf("Preload order not preserved: %q, %q", got[0].ID, got[1].ID)
	}

	// Preload on a non-empty ledger is a no-op.
	l.Preload([]domain.Ticket{ticket("late")})
	if l.Len() != 2 {
		t.Errorf("Preload on non-empty ledger mutated it: Len() = %d", l.Len())
	}

	// New records still go to the front.
	l.Record(ticket("live"))
	if got := l.History(); got[0].ID != "live" {
		t.Errorf("History()[0].ID = %q after Record, want \"live\"", got[0].ID)
	}
}

func TestConcurrentRecordAndHistory(t *testing.T) {
	l := New()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			l.Record(ticket(fmt.Sprintf("t%d", i)))
		}
	}()

	for i := 0; i < 100; i++ {
		_ = l.History()
	}
	<-done

	if l.Len() != 100 {
		t.Errorf("Len() = %d, want 100", l.Len())
	}
}
