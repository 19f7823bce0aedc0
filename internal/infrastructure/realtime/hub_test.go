package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil, []string{"*"})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimPrefix(r.URL.Path, "/live/")
		_ = hub.ServeSession(w, r, sessionID)
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(sessionID) != n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d clients on %s (have %d)", n, sessionID, hub.ClientCount(sessionID))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) entities.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev entities.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return ev
}

func TestHub_DeliversOnlyToWatchedSession(t *testing.T) {
	hub, srv := startHub(t)
	a := dial(t, srv, "s1")
	b := dial(t, srv, "s2")
	waitForClients(t, hub, "s1", 1)
	waitForClients(t, hub, "s2", 1)

	ctx := context.Background()
	if err := hub.Publish(ctx, entities.NewEvent(entities.EventSurveySubmitted, "s1")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := hub.Publish(ctx, entities.NewEvent(entities.EventSessionClosed, "s2")); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if ev := readEvent(t, a); ev.Type != entities.EventSurveySubmitted || ev.SessionID != "s1" {
		t.Fatalf("client a got %+v", ev)
	}
	if ev := readEvent(t, b); ev.Type != entities.EventSessionClosed || ev.SessionID != "s2" {
		t.Fatalf("client b got %+v", ev)
	}
}

func TestHub_GlobalEventsReachEveryone(t *testing.T) {
	hub, srv := startHub(t)
	a := dial(t, srv, "s1")
	b := dial(t, srv, "s2")
	waitForClients(t, hub, "s1", 1)
	waitForClients(t, hub, "s2", 1)

	if err := hub.Publish(context.Background(), entities.NewEvent(entities.EventStoreReset, "")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	for _, c := range []*websocket.Conn{a, b} {
		if ev := readEvent(t, c); ev.Type != entities.EventStoreReset {
			t.Fatalf("expected reset event, got %+v", ev)
		}
	}
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "s1")
	waitForClients(t, hub, "s1", 1)

	conn.Close()
	waitForClients(t, hub, "s1", 0)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if !check(r) {
		t.Fatal("requests without Origin should be allowed")
	}
	r.Header.Set("Origin", "http://localhost:3000")
	if !check(r) {
		t.Fatal("configured origin should be allowed")
	}
	r.Header.Set("Origin", "https://evil.example.com")
	if check(r) {
		t.Fatal("unknown origin should be rejected")
	}
}
