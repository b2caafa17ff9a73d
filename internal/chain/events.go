package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WatcherConfig configures the event watcher's connection behavior.
type WatcherConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is the maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is the timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultWatcherConfig returns the default watcher configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// EventWatcher subscribes to the gateway's bond event feed over WebSocket
// and delivers events on a channel. The connection is re-established with
// exponential backoff after failures.
type EventWatcher struct {
	endpoint string
	config   WatcherConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	events chan BondEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewEventWatcher connects to the endpoint and starts the read and ping loops.
func NewEventWatcher(ctx context.Context, endpoint string, config *WatcherConfig) (*EventWatcher, error) {
	cfg := DefaultWatcherConfig()
	if config != nil {
		cfg = *config
	}

	w := &EventWatcher{
		endpoint: endpoint,
		config:   cfg,
		events:   make(chan BondEvent, 64),
		done:     make(chan struct{}),
	}

	if err := w.connect(ctx); err != nil {
		return nil, err
	}

	w.wg.Add(1)
	go w.readLoop()

	w.wg.Add(1)
	go w.pingLoop()

	return w, nil
}

// Events returns the channel bond events are delivered on. The channel is
// closed when the watcher shuts down.
func (w *EventWatcher) Events() <-chan BondEvent {
	return w.events
}

// connect dials the gateway and subscribes to the bond event feed.
func (w *EventWatcher) connect(ctx context.Context) error {
	w.connMu.Lock()
	defer w.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, w.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	// Pongs extend the read deadline so an idle feed does not flap.
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(w.config.ReadTimeout))
	})

	sub := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "bondSubscribe",
	}
	conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe: %w", err)
	}

	w.conn = conn
	return nil
}

// readLoop reads event notifications and reconnects on failure.
func (w *EventWatcher) readLoop() {
	defer w.wg.Done()
	defer close(w.events)

	for {
		if w.closed.Load() {
			return
		}

		w.connMu.Lock()
		conn := w.conn
		w.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(w.config.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if w.closed.Load() {
				return
			}
			if !w.reconnect() {
				return
			}
			continue
		}

		var msg struct {
			Method string `json:"method"`
			Params struct {
				Result BondEvent `json:"result"`
			} `json:"params"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue // subscription acks and malformed frames are skipped
		}
		if msg.Method != "bondNotification" {
			continue
		}

		select {
		case w.events <- msg.Params.Result:
		case <-w.done:
			return
		default:
			// Slow consumer: drop the event rather than stall the feed.
		}
	}
}

// reconnect re-establishes the connection with exponential backoff.
// Returns false when the watcher was closed while waiting.
func (w *EventWatcher) reconnect() bool {
	// Release the dead connection before dialing a new one.
	w.connMu.Lock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connMu.Unlock()

	delay := w.config.ReconnectDelay

	for {
		select {
		case <-w.done:
			return false
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := w.connect(ctx)
		cancel()
		if err == nil {
			return true
		}

		delay *= 2
		if delay > w.config.MaxReconnectDelay {
			delay = w.config.MaxReconnectDelay
		}
	}
}

// pingLoop keeps the connection alive.
func (w *EventWatcher) pingLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.connMu.Lock()
			conn := w.conn
			w.connMu.Unlock()
			if conn == nil {
				// Reconnect in progress.
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
			_ = conn.WriteMessage(websocket.PingMessage, nil)
		}
	}
}

// Close shuts the watcher down and waits for its goroutines.
func (w *EventWatcher) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(w.done)

	w.connMu.Lock()
	var err error
	if w.conn != nil {
		err = w.conn.Close()
	}
	w.connMu.Unlock()

	w.wg.Wait()
	return err
}
