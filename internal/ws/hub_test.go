package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/speakpost/speakpost-backend/internal/coordinator"
)

func newTestClient(h *Hub, buffer int) *Client {
	return &Client{hub: h, send: make(chan []byte, buffer)}
}

func (h *Hub) hasClient(c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[c]
}

func TestHub_BroadcastReachesRegisteredClients(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Shutdown()

	client := newTestClient(h, 4)
	h.Register(client)

	h.Publish(coordinator.Event{Type: coordinator.EventStateChanged, State: coordinator.StateReady})

	select {
	case data := <-client.send:
		assert.Contains(t, string(data), "state_changed")
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the client")
	}
}

func TestHub_SlowClientDroppedOnBroadcast(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Shutdown()

	slow := newTestClient(h, 1)
	h.Register(slow)
	assert.Eventually(t, func() bool { return h.hasClient(slow) }, time.Second, 5*time.Millisecond)

	// fill the buffer, then force one more broadcast past it
	slow.send <- []byte("stale")
	h.Publish(coordinator.Event{Type: coordinator.EventStatusChanged})

	assert.Eventually(t, func() bool { return !h.hasClient(slow) }, time.Second, 5*time.Millisecond)
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Shutdown()

	client := newTestClient(h, 4)
	h.Register(client)
	assert.Eventually(t, func() bool { return h.hasClient(client) }, time.Second, 5*time.Millisecond)

	h.unregister <- client

	assert.Eventually(t, func() bool {
		select {
		case _, open := <-client.send:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.False(t, h.hasClient(client))
}
