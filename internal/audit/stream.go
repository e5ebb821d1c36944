package audit

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/claimgate/claimgate/pkg/types"
)

const (
	defaultStreamBuffer = 16
	streamWriteTimeout  = 5 * time.Second
)

// StreamHub broadcasts entries to connected websocket clients. A client that
// falls behind loses entries rather than slowing down the request path.
type StreamHub struct {
	upgrader websocket.Upgrader
	buffer   int

	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	closed bool
}

func NewStreamHub(buffer int) *StreamHub {
	if buffer <= 0 {
		buffer = defaultStreamBuffer
	}
	return &StreamHub{
		buffer: buffer,
		subs:   make(map[chan []byte]struct{}),
	}
}

// AllowOrigins admits browser clients from the listed origins in addition to
// same-origin ones. Clients that send no Origin header are always admitted.
func (h *StreamHub) AllowOrigins(origins ...string) *StreamHub {
	if len(origins) == 0 {
		return h
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	h.upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := allowed[strings.TrimRight(strings.ToLower(origin), "/")]; ok {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
	return h
}

func (h *StreamHub) Record(_ context.Context, entry types.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
		}
	}
	return nil
}

// Subscribers reports the number of connected clients.
func (h *StreamHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *StreamHub) subscribe() (chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan []byte, h.buffer)
	h.subs[ch] = struct{}{}
	return ch, true
}

func (h *StreamHub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// ServeHTTP upgrades the request and streams entries until either side closes.
func (h *StreamHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.subscribe()
	if !ok {
		http.Error(w, "audit stream closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.unsubscribe(ch)
		return
	}
	defer conn.Close()

	// Reader goroutine only watches for the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer h.unsubscribe(ch)
	for {
		select {
		case data, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("audit: stream write failed: %v", err)
				return
			}
		case <-gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// Close disconnects all clients and rejects new ones.
func (h *StreamHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
	return nil
}
