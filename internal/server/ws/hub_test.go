package ws

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rangebook/rangebook/internal/cache/memory"
	"github.com/rangebook/rangebook/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s) error: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubRelaysBusMessages(t *testing.T) {
	bus := memory.NewSignalBus()
	h := NewHub(bus, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	conn := dialHub(t, h)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello struct {
		Type string `json:"type"`
	}
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello frame: %v", err)
	}
	if hello.Type != "hello" {
		t.Fatalf("first frame type = %q, want hello", hello.Type)
	}

	// The relay goroutines subscribe asynchronously, so keep publishing
	// until a frame comes through.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		payload := []byte(`{"type":"price_update","asset_id":"btc"}`)
		for {
			select {
			case <-stop:
				return
			case <-time.After(10 * time.Millisecond):
				_ = bus.Publish(context.Background(), domain.ChannelPrices, payload)
			}
		}
	}()

	var event struct {
		Type string `json:"type"`
	}
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read relayed frame: %v", err)
	}
	if event.Type != "price_update" {
		t.Errorf("relayed frame type = %q, want price_update", event.Type)
	}
}

func TestHubRejectsClientsAfterShutdown(t *testing.T) {
	bus := memory.NewSignalBus()
	h := NewHub(bus, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		_ = h.Run(ctx)
		close(runDone)
	}()
	cancel()
	select {
	case <-runDone:
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop after context cancellation")
	}

	// A connection arriving after the hub stopped must be closed promptly,
	// not parked on the register channel with no receiver.
	conn := dialHub(t, h)
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	start := time.Now()
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected the connection to be closed after hub shutdown")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("late client closed after %v, want immediate rejection", elapsed)
	}
}
