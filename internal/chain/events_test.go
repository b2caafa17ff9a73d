package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func TestEventWatcher_DeliversEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// Read the subscribe request, then ack it
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		ack := map[string]interface{}{"jsonrpc": "2.0", "id": 1, "result": 7}
		if err := conn.WriteJSON(ack); err != nil {
			return
		}

		notification := map[string]interface{}{
			"jsonrpc": "2.0",
			"method":  "bondNotification",
			"params": map[string]interface{}{
				"result": map[string]interface{}{
					"event":       "TokensPurchased",
					"isin":        "KE0000123456",
					"investor":    "0xinvestor",
					"amount":      300.0,
					"txHash":      "0xabc",
					"blockNumber": int64(10),
				},
			},
		}
		if err := conn.WriteJSON(notification); err != nil {
			return
		}

		// Keep the connection open until the client leaves
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	watcher, err := NewEventWatcher(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("NewEventWatcher: %v", err)
	}
	defer watcher.Close()

	select {
	case ev := <-watcher.Events():
		if ev.Event != "TokensPurchased" {
			t.Errorf("expected TokensPurchased, got %s", ev.Event)
		}
		if ev.ISIN != "KE0000123456" {
			t.Errorf("expected isin KE0000123456, got %s", ev.ISIN)
		}
		if ev.Amount != 300 {
			t.Errorf("expected amount 300, got %v", ev.Amount)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

// openFDs counts this process's open file descriptors.
func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("fd accounting unavailable: %v", err)
	}
	return len(entries)
}

func TestEventWatcher_ReconnectClosesOldConnections(t *testing.T) {
	var accepted atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted.Add(1)
		// Drop the connection immediately to force a reconnect.
		conn.Close()
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	cfg := DefaultWatcherConfig()
	cfg.ReconnectDelay = 5 * time.Millisecond
	cfg.MaxReconnectDelay = 10 * time.Millisecond

	watcher, err := NewEventWatcher(context.Background(), wsURL, &cfg)
	if err != nil {
		t.Fatalf("NewEventWatcher: %v", err)
	}
	defer watcher.Close()

	base := openFDs(t)

	deadline := time.Now().Add(10 * time.Second)
	for accepted.Load() < 25 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d connections before timeout", accepted.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}

	// At most the live connection plus a transient dial should remain open.
	if n := openFDs(t); n > base+5 {
		t.Errorf("file descriptors grew from %d to %d across reconnects", base, n)
	}
}

func TestEventWatcher_CloseIsIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	watcher, err := NewEventWatcher(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("NewEventWatcher: %v", err)
	}

	if err := watcher.Close(); err != nil {
		t.Errorf("first close: %v", err)
	}
	if err := watcher.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
