package spectate

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/golem-runner/internal/runner"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitViewers(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Viewers() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d viewers, have %d", n, h.Viewers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return m
}

func TestHubBroadcastsSnapshots(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	waitViewers(t, h, 2)

	snap := runner.Snapshot{
		State:     runner.StatePlaying,
		Player:    runner.PlayerState{X: 80, Y: 200, Width: 50, Height: 60},
		Obstacles: []runner.Obstacle{{ID: 3, X: 500, Width: 30, Height: 50, TemplateID: "rock"}},
	}
	if err := h.PublishSnapshot("desert", snap); err != nil {
		t.Fatalf("PublishSnapshot: %v", err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		m := readMessage(t, conn)
		if m.Type != TypeSnapshot || m.Theme != "desert" || m.Snapshot == nil {
			t.Fatalf("unexpected message %+v", m)
		}
		if m.Snapshot.State != runner.StatePlaying {
			t.Errorf("state %v, want Playing", m.Snapshot.State)
		}
		if len(m.Snapshot.Obstacles) != 1 || m.Snapshot.Obstacles[0].TemplateID != "rock" {
			t.Errorf("obstacles lost: %+v", m.Snapshot.Obstacles)
		}
	}
}

func TestHubGameOverCarriesReward(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv)
	waitViewers(t, h, 1)

	if err := h.PublishGameOver("forest", runner.TerminalEvent{FinalScore: 4200}); err != nil {
		t.Fatalf("PublishGameOver: %v", err)
	}
	m := readMessage(t, conn)
	if m.Type != TypeGameOver || m.FinalScore != 4200 {
		t.Fatalf("unexpected message %+v", m)
	}
	if m.Reward == nil || m.Reward.Tier.Label != "Speedster" {
		t.Errorf("expected Speedster reward, got %+v", m.Reward)
	}
}

func TestHubDropsDisconnectedViewers(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv)
	waitViewers(t, h, 1)

	conn.Close()
	waitViewers(t, h, 0)
}

func TestHubDropsSlowViewers(t *testing.T) {
	h := NewHub(nil)
	c := &client{send: make(chan []byte, 1), id: "slow"}
	h.clients[c] = struct{}{}

	h.Broadcast([]byte("one"))
	h.Broadcast([]byte("two")) // queue full

	if h.Viewers() != 0 {
		t.Fatalf("slow viewer should be dropped, have %d", h.Viewers())
	}
	if _, ok := <-c.send; !ok {
		t.Fatal("queued message should still be readable")
	}
	if _, ok := <-c.send; ok {
		t.Fatal("send queue should be closed")
	}
}

func TestHubRefusesAfterClose(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	h.Close()
	conn := dial(t, srv)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}
	if h.Viewers() != 0 {
		t.Errorf("closed hub should have no viewers, got %d", h.Viewers())
	}
}
