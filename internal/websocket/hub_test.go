package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readFrame receives one frame with a timeout so a wedged hub fails the test
// instead of hanging it.
func readFrame(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case data, ok := <-ch:
		require.True(t, ok, "channel closed before a frame arrived")
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a frame")
		return nil
	}
}

func TestBroadcastRoutesByGame(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	watcher := &Client{GameID: "game-1", Send: make(chan []byte, 8)}
	other := &Client{GameID: "game-2", Send: make(chan []byte, 8)}
	hub.Register(watcher)
	hub.Register(other)

	hub.BroadcastToGame("game-1", []byte(`{"type":"score"}`))

	assert.Equal(t, []byte(`{"type":"score"}`), readFrame(t, watcher.Send))
	select {
	case data := <-other.Send:
		t.Fatalf("game-2 watcher received a game-1 frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowClientDroppedWithoutBlockingHub(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// A watcher whose Send buffer is already full and is never drained —
	// the shape of a stalled or dead connection.
	slow := &Client{GameID: "game-1", Send: make(chan []byte, 1)}
	slow.Send <- []byte("stale")
	healthy := &Client{GameID: "game-1", Send: make(chan []byte, 8)}
	hub.Register(slow)
	hub.Register(healthy)

	hub.BroadcastToGame("game-1", []byte("first"))
	hub.BroadcastToGame("game-1", []byte("second"))

	// Broadcasts are handled in order, so once "second" lands on the healthy
	// watcher the first broadcast — the one that found slow's buffer full —
	// has fully completed and must have dropped the slow client.
	assert.Equal(t, []byte("first"), readFrame(t, healthy.Send))
	assert.Equal(t, []byte("second"), readFrame(t, healthy.Send))

	assert.Equal(t, []byte("stale"), readFrame(t, slow.Send))
	select {
	case _, open := <-slow.Send:
		assert.False(t, open, "slow client's Send should be closed after the drop")
	case <-time.After(time.Second):
		t.Fatal("slow client was never dropped")
	}

	// The hub's loop must still be serving events afterwards.
	fresh := &Client{GameID: "game-2", Send: make(chan []byte, 8)}
	registered := make(chan struct{})
	go func() {
		hub.Register(fresh)
		close(registered)
	}()
	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("hub stopped accepting registrations after dropping a slow client")
	}

	hub.BroadcastToGame("game-2", []byte("hello"))
	assert.Equal(t, []byte("hello"), readFrame(t, fresh.Send))

	// The socket pump calls Unregister when its connection dies; for an
	// already-dropped client that must be a harmless no-op, not a second
	// close.
	unregistered := make(chan struct{})
	go func() {
		hub.Unregister(slow)
		close(unregistered)
	}()
	select {
	case <-unregistered:
	case <-time.After(time.Second):
		t.Fatal("unregistering an already-dropped client blocked the hub")
	}
}
