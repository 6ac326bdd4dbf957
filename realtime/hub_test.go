package realtime

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	mu       sync.Mutex
	payloads []Envelope
	writeErr error
	block    chan struct{} // when set, WriteJSON blocks until closed
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.payloads = append(c.payloads, v.(Envelope))
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) received() []Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Envelope, len(c.payloads))
	copy(out, c.payloads)
	return out
}

// waitForPayloads polls until the connection's writer has delivered n
// payloads. Delivery is asynchronous, so tests must wait, not assume.
func waitForPayloads(t *testing.T, conn *fakeConn, n int) []Envelope {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := conn.received(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	got := conn.received()
	t.Fatalf("timed out waiting for %d payloads, have %d", n, len(got))
	return got
}

// settle gives writer goroutines a moment before a must-not-receive check.
func settle() { time.Sleep(50 * time.Millisecond) }

func TestDispatchFansOutToAllConnections(t *testing.T) {
	hub := NewHub()
	conns := make([]*fakeConn, 3)
	clients := make([]*Client, 3)
	for i := range conns {
		conns[i] = &fakeConn{}
		clients[i] = hub.Register("u1", conns[i])
	}
	if hub.RoomSize("u1") != 3 {
		t.Fatalf("expected room size 3, got %d", hub.RoomSize("u1"))
	}

	hub.Dispatch("u1", "payload")

	for i, conn := range conns {
		got := waitForPayloads(t, conn, 1)
		if len(got) != 1 {
			t.Fatalf("conn %d received %d payloads, want exactly 1", i, len(got))
		}
		if got[0].Event != NotificationEvent {
			t.Fatalf("conn %d event %q, want %q", i, got[0].Event, NotificationEvent)
		}
		if got[0].Data != "payload" {
			t.Fatalf("conn %d data %v", i, got[0].Data)
		}
	}

	for _, client := range clients {
		hub.Unregister(client)
	}
	if hub.RoomSize("u1") != 0 {
		t.Fatalf("expected empty room after unregister, got %d", hub.RoomSize("u1"))
	}

	// Dispatch to a gone room is a silent no-op.
	hub.Dispatch("u1", "late")
	settle()
	for i, conn := range conns {
		if len(conn.received()) != 1 {
			t.Fatalf("conn %d received late payload", i)
		}
	}
}

func TestDispatchUnknownUserIsNoOp(t *testing.T) {
	hub := NewHub()
	hub.Dispatch("nobody", "payload") // must not panic or error
}

func TestDispatchDoesNotLeakAcrossRooms(t *testing.T) {
	hub := NewHub()
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	hub.Register("u1", c1)
	hub.Register("u2", c2)

	hub.Dispatch("u1", "for-u1")

	waitForPayloads(t, c1, 1)
	settle()
	if len(c2.received()) != 0 {
		t.Fatalf("u2 conn must receive nothing, got %d", len(c2.received()))
	}
}

func TestDispatchIsolatesWriteFailures(t *testing.T) {
	hub := NewHub()
	broken := &fakeConn{writeErr: errors.New("connection reset")}
	healthy := &fakeConn{}
	hub.Register("u1", broken)
	hub.Register("u1", healthy)

	hub.Dispatch("u1", "payload")

	if got := waitForPayloads(t, healthy, 1); len(got) != 1 {
		t.Fatalf("healthy conn must still receive, got %d", len(got))
	}
}

func TestDispatchNeverBlocksOnStalledConnection(t *testing.T) {
	hub := NewHub()
	stalled := &fakeConn{block: make(chan struct{})}
	healthy := &fakeConn{}
	client := hub.Register("u1", stalled)
	hub.Register("u1", healthy)

	// Push well past the stalled client's buffer; every call must return
	// promptly even though its writer is wedged mid-frame.
	start := time.Now()
	for i := 0; i < sendBufferSize*2; i++ {
		hub.Dispatch("u1", i)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("dispatch blocked the caller for %v on a stalled connection", elapsed)
	}

	// The healthy sibling got every payload.
	if got := waitForPayloads(t, healthy, sendBufferSize*2); len(got) != sendBufferSize*2 {
		t.Fatalf("healthy conn received %d payloads, want %d", len(got), sendBufferSize*2)
	}

	close(stalled.block)
	hub.Unregister(client)
}

func TestUnregisterKeepsSiblingConnections(t *testing.T) {
	hub := NewHub()
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	client1 := hub.Register("u1", c1)
	hub.Register("u1", c2)

	hub.Unregister(client1)
	if hub.RoomSize("u1") != 1 {
		t.Fatalf("expected 1 connection left, got %d", hub.RoomSize("u1"))
	}

	hub.Dispatch("u1", "payload")
	waitForPayloads(t, c2, 1)
	if len(c1.received()) != 0 {
		t.Fatal("unregistered conn must not receive")
	}
}

func TestConcurrentRegisterDispatchUnregister(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("u%d", i%4)
			for j := 0; j < 50; j++ {
				client := hub.Register(userID, &fakeConn{})
				hub.Dispatch(userID, j)
				hub.Unregister(client)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		userID := fmt.Sprintf("u%d", i)
		if hub.RoomSize(userID) != 0 {
			t.Fatalf("room %s not empty after teardown: %d", userID, hub.RoomSize(userID))
		}
	}
}
