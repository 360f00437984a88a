package tool

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"crabe/internal/model"
)

func TestBuildSnapshotProjectsAlliesEnemiesAndBall(t *testing.T) {
	world := model.NewWorld(model.Blue)
	world.AlliesBot[0] = &model.Robot[model.AllyInfo]{ID: 0}
	world.EnemiesBot[5] = &model.Robot[model.EnemyInfo]{ID: 5}
	world.Ball = &model.Ball{}
	tools := model.NewToolData()
	tools.Messages = append(tools.Messages, model.MessageData{From: "Play", Kind: "shot_taken"})

	snap := BuildSnapshot(42, world, &tools)

	if snap.Tick != 42 {
		t.Fatalf("expected tick 42, got %d", snap.Tick)
	}
	if snap.TeamColor != "blue" {
		t.Fatalf("expected blue, got %s", snap.TeamColor)
	}
	if len(snap.Allies) != 1 || len(snap.Enemies) != 1 {
		t.Fatalf("expected one ally and one enemy, got %+v", snap)
	}
	if snap.Ball == nil {
		t.Fatalf("expected a ball snapshot")
	}
	if len(snap.Messages) != 1 {
		t.Fatalf("expected messages to be carried through")
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5000"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := ClientIP(r); got != "203.0.113.9" {
		t.Fatalf("expected forwarded IP, got %s", got)
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.5:6000"

	if got := ClientIP(r); got != "192.168.1.5" {
		t.Fatalf("expected remote addr host, got %s", got)
	}
}

func TestWSConnLimiterCapsPerIP(t *testing.T) {
	l := NewWSConnLimiter(2)
	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatalf("expected first two connections to be allowed")
	}
	if l.Allow("1.2.3.4") {
		t.Fatalf("expected third connection from the same IP to be rejected")
	}
	l.Release("1.2.3.4")
	if !l.Allow("1.2.3.4") {
		t.Fatalf("expected a connection to be allowed after release")
	}
}

func TestHubBroadcastDropsOnFullBuffer(t *testing.T) {
	h := NewHub(nil)
	c := &client{send: make(chan []byte, 1)}
	h.clients[c] = struct{}{}
	c.send <- []byte("x")

	// Broadcast must not block even though c's buffer is already full.
	h.Broadcast(Snapshot{Tick: 1})
}
