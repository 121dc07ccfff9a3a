package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeSender struct {
	name  string
	sent  []string
	fail  bool
	calls int
}

func (f *fakeSender) Send(_ context.Context, title, _ string) error {
	f.calls++
	if f.fail {
		return errors.New("boom")
	}
	f.sent = append(f.sent, title)
	return nil
}

func (f *fakeSender) Name() string { return f.name }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNotify_EventFilter(t *testing.T) {
	s := &fakeSender{name: "fake"}
	n := NewNotifier([]Sender{s}, []string{"ticket_accepted"}, discardLogger())
	ctx := context.Background()

	if err := n.Notify(ctx, "feed_error", "Feed down", "x"); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if s.calls != 0 {
		t.Errorf("filtered event reached sender (%d calls)", s.calls)
	}

	if err := n.Notify(ctx, "ticket_accepted", "Ticket", "y"); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if len(s.sent) != 1 || s.sent[0] != "Ticket" {
		t.Errorf("sent = %v, want [Ticket]", s.sent)
	}
}

func TestNotify_EmptyFilterAllowsAll(t *testing.T) {
	s := &fakeSender{name: "fake"}
	n := NewNotifier([]Sender{s}, nil, discardLogger())

	if err := n.Notify(context.Background(), "anything", "T", "m"); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if s.calls != 1 {
		t.Errorf("calls = %d, want 1", s.calls)
	}
}

func TestNotify_OneFailureDoesNotBlockOthers(t *testing.T) {
	bad := &fakeSender{name: "bad", fail: true}
	good := &fakeSender{name: "good"}
	n := NewNotifier([]Sender{bad, good}, nil, discardLogger())

	err := n.Notify(context.Background(), "e", "T", "m")
	if err == nil {
		t.Error("Notify() = nil, want combined error")
	}
	if len(good.sent) != 1 {
		t.Errorf("good sender received %d messages, want 1", len(good.sent))
	}
}

func TestNotify_NoSendersIsNoop(t *testing.T) {
	n := NewNotifier(nil, nil, discardLogger())
	if err := n.Notify(context.Background(), "e", "T", "m"); err != nil {
		t.Errorf("Notify() error: %v", err)
	}
}
