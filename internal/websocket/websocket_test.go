package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/prizedraw/internal/logger"
	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/services"
)

// fakeStatus is a StatusSource returning a fixed snapshot
type fakeStatus struct {
	status *models.LotteryStatus
	err    error
}

func (f *fakeStatus) Status(ctx context.Context) (*models.LotteryStatus, error) {
	return f.status, f.err
}

func newFakeStatus() *fakeStatus {
	return &fakeStatus{status: &models.LotteryStatus{
		CurrentEpoch:      3,
		EpochStatus:       models.EpochOpen,
		Awards:            []models.Award{},
		TotalParticipants: 20,
	}}
}

// Hub is wired into the lottery service as its broadcaster
var _ services.Broadcaster = (*Hub)(nil)

type rawMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:], nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) rawMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg rawMessage
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNew_CreatesHubWithDependencies(t *testing.T) {
	hub := New(logger.Nop(), newFakeStatus())

	if hub.log == nil {
		t.Error("expected logger to be set")
	}
	if hub.status == nil {
		t.Error("expected status source to be set")
	}
	if hub.clients == nil || hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("expected channels and client map to be initialized")
	}
}

func TestHub_BroadcastMessage_DoesNotBlock(t *testing.T) {
	hub := New(logger.Nop(), newFakeStatus())

	// Hub loop is not running, so the queue fills and then drops
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer+10; i++ {
			hub.BroadcastMessage("test", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastMessage blocked on a full queue")
	}
}

func TestHub_ClientRegistration(t *testing.T) {
	hub := New(logger.Nop(), newFakeStatus())
	hub.Start()

	client := &Client{hub: hub, send: make(chan models.WSMessage, 1)}

	hub.register <- client
	waitForClients(t, hub, 1)

	hub.unregister <- client
	waitForClients(t, hub, 0)

	if _, ok := <-client.send; ok {
		t.Error("expected send channel to be closed on unregister")
	}
}

func TestServeWs_SendsStatusSnapshot(t *testing.T) {
	hub := New(logger.Nop(), newFakeStatus())
	hub.Start()

	ws := dial(t, hub)
	msg := readMessage(t, ws)

	if msg.Type != TypeLotteryStatus {
		t.Fatalf("expected %s first, got %s", TypeLotteryStatus, msg.Type)
	}
	var status models.LotteryStatus
	if err := json.Unmarshal(msg.Payload, &status); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if status.CurrentEpoch != 3 || status.TotalParticipants != 20 {
		t.Errorf("unexpected snapshot: %+v", status)
	}
}

func TestServeWs_StatusErrorStillRegisters(t *testing.T) {
	hub := New(logger.Nop(), &fakeStatus{err: errors.New("db down")})
	hub.Start()

	ws := dial(t, hub)
	waitForClients(t, hub, 1)

	hub.BroadcastLotteryReset()
	if msg := readMessage(t, ws); msg.Type != TypeLotteryReset {
		t.Errorf("expected %s, got %s", TypeLotteryReset, msg.Type)
	}
}

func TestHub_BroadcastEvents(t *testing.T) {
	hub := New(logger.Nop(), newFakeStatus())
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws) // snapshot
	waitForClients(t, hub, 1)

	result := &services.DrawResult{
		Award:       models.Award{ID: 1, Name: "Grand Prize", Level: 1},
		Epoch:       2,
		Requested:   3,
		ActualCount: 2,
		WasPartial:  true,
		Winners:     []models.Winner{{ID: 10, ParticipantID: 4, AwardID: 1}},
	}

	tests := []struct {
		name     string
		send     func()
		wantType string
		check    func(t *testing.T, payload json.RawMessage)
	}{
		{
			name:     "draw result",
			send:     func() { hub.BroadcastDrawResult(result, 750) },
			wantType: TypeDrawResult,
			check: func(t *testing.T, payload json.RawMessage) {
				var p struct {
					ActualCount    int             `json:"actual_count"`
					WasPartial     bool            `json:"was_partial"`
					DisplayDelayMS int             `json:"display_delay_ms"`
					Winners        []models.Winner `json:"winners"`
				}
				json.Unmarshal(payload, &p)
				if p.ActualCount != 2 || !p.WasPartial || p.DisplayDelayMS != 750 || len(p.Winners) != 1 {
					t.Errorf("unexpected draw payload: %s", payload)
				}
			},
		},
		{
			name:     "round changed",
			send:     func() { hub.BroadcastRoundChanged(models.Epoch{Number: 4, Status: models.EpochOpen}) },
			wantType: TypeRoundChanged,
			check: func(t *testing.T, payload json.RawMessage) {
				var e models.Epoch
				json.Unmarshal(payload, &e)
				if e.Number != 4 {
					t.Errorf("expected epoch 4, got %+v", e)
				}
			},
		},
		{
			name:     "winner revoked",
			send:     func() { hub.BroadcastWinnerRevoked(models.Winner{ID: 10}) },
			wantType: TypeWinnerRevoked,
			check: func(t *testing.T, payload json.RawMessage) {
				var w models.Winner
				json.Unmarshal(payload, &w)
				if w.ID != 10 {
					t.Errorf("expected winner 10, got %+v", w)
				}
			},
		},
		{
			name:     "reset",
			send:     hub.BroadcastLotteryReset,
			wantType: TypeLotteryReset,
			check:    func(t *testing.T, payload json.RawMessage) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.send()
			msg := readMessage(t, ws)
			if msg.Type != tt.wantType {
				t.Fatalf("expected %s, got %s", tt.wantType, msg.Type)
			}
			tt.check(t, msg.Payload)
		})
	}
}

func TestServeWs_DisconnectUnregisters(t *testing.T) {
	hub := New(logger.Nop(), newFakeStatus())
	hub.Start()

	ws := dial(t, hub)
	waitForClients(t, hub, 1)

	ws.Close()
	waitForClients(t, hub, 0)
}

func TestServeWs_RejectsPlainHTTP(t *testing.T) {
	hub := New(logger.Nop(), newFakeStatus())
	hub.Start()

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	w := httptest.NewRecorder()
	hub.ServeWs(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-upgrade request, got %d", w.Code)
	}
	if hub.ClientCount() != 0 {
		t.Error("expected no client registered")
	}
}

func TestHub_StopDisconnectsClients(t *testing.T) {
	hub := New(logger.Nop(), newFakeStatus())
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws)
	waitForClients(t, hub, 1)

	hub.Stop()
	hub.Stop()

	waitForClients(t, hub, 0)
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Error("expected connection to close after Stop")
	}

	// Late connections are refused without blocking
	late := dial(t, hub)
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := late.ReadMessage(); err != nil {
			break
		}
	}
	if n := hub.ClientCount(); n != 0 {
		t.Errorf("expected no clients after Stop, got %d", n)
	}
}
