package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rangebook/rangebook/internal/domain"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(ClientConfig{BaseURL: srv.URL, RequestTimeout: 2 * time.Second})
	return c, srv
}

func TestCurrentPrice(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/price" {
			t.Errorf("path = %q, want /api/v3/ticker/price", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("symbol = %q, want BTCUSDT", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"50123.45000000"}`))
	})
	defer srv.Close()

	price, err := c.CurrentPrice(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("CurrentPrice() error: %v", err)
	}
	if price != 50123.45 {
		t.Errorf("CurrentPrice() = %v, want 50123.45", price)
	}
}

func TestCurrentPrice_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", http.StatusBadGateway)
			},
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
		{
			"unparseable price",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"symbol":"BTCUSDT","price":"n/a"}`))
			},
		},
		{
			"zero price",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"symbol":"BTCUSDT","price":"0"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(tt.handler)
			defer srv.Close()

			_, err := c.CurrentPrice(context.Background(), "BTCUSDT")
			if !errors.Is(err, domain.ErrPriceUnavailable) {
				t.Errorf("CurrentPrice() error = %v, want ErrPriceUnavailable", err)
			}
		})
	}
}

func TestCurrentPrice_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close() // dead endpoint

	c := NewClient(ClientConfig{BaseURL: srv.URL, RequestTimeout: time.Second})
	if _, err := c.CurrentPrice(context.Background(), "BTCUSDT"); !errors.Is(err, domain.ErrPriceUnavailable) {
		t.Errorf("CurrentPrice() error = %v, want ErrPriceUnavailable", err)
	}
}
