package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dkaplan/trade-ticket/internal/config"
	"github.com/dkaplan/trade-ticket/internal/model"
)

func testFeedConfig(url string) config.FeedConfig {
	return config.FeedConfig{
		URL:                url,
		PingInterval:       50 * time.Millisecond,
		ReadTimeout:        2 * time.Second,
		HandshakeTimeout:   2 * time.Second,
		ReconnectBaseDelay: 10 * time.Millisecond,
		ReconnectMaxDelay:  100 * time.Millisecond,
		BufferSize:         16,
	}
}

// priceServer upgrades connections and sends each payload once.
func priceServer(t *testing.T, payloads ...string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for _, p := range payloads {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(p)); err != nil {
				return
			}
		}

		// Hold the connection open until the client closes it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient_DeliversPriceFrames(t *testing.T) {
	srv := priceServer(t,
		`{"type":"subscribed"}`,
		`{"type":"prices","prices":{"Yes":{"best_ask":65,"best_bid":63}}}`,
	)
	defer srv.Close()

	received := make(chan map[string]model.Quote, 1)
	c := NewClient(testFeedConfig(wsURL(srv)), func(p map[string]model.Quote) {
		select {
		case received <- p:
		default:
		}
	}, nil)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer c.Close()

	select {
	case prices := <-received:
		q, ok := prices["Yes"]
		if !ok || q.BestAsk == nil || *q.BestAsk != 65 {
			t.Errorf("prices = %v, want Yes ask 65", prices)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for price frame")
	}
}

func TestClient_SkipsMalformedFrames(t *testing.T) {
	srv := priceServer(t,
		`{garbage`,
		`{"type":"prices","prices":{"Yes":{"best_ask":70,"best_bid":68}}}`,
	)
	defer srv.Close()

	received := make(chan map[string]model.Quote, 1)
	c := NewClient(testFeedConfig(wsURL(srv)), func(p map[string]model.Quote) {
		select {
		case received <- p:
		default:
		}
	}, nil)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer c.Close()

	select {
	case prices := <-received:
		if q := prices["Yes"]; q.BestAsk == nil || *q.BestAsk != 70 {
			t.Errorf("prices = %v, want the frame after the malformed one", prices)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for price frame")
	}
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	srv := priceServer(t)
	defer srv.Close()

	c := NewClient(testFeedConfig(wsURL(srv)), nil, nil)
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}

	if err := c.Connect(context.Background()); err != ErrAlreadyClosed {
		t.Errorf("Connect after Close = %v, want ErrAlreadyClosed", err)
	}
}
