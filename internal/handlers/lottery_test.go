package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/abrezinsky/prizedraw/internal/handlers"
	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/testutil"
)

type errorBody struct {
	Code    string         `json:"code"`
	Error   string         `json:"error"`
	Details map[string]int `json:"details"`
}

func TestHandleDraw(t *testing.T) {
	s := newTestSetup(t)
	testutil.AddParticipants(t, s.repo, 10)
	awardID := testutil.AddAward(t, s.repo, "Third Prize", 3, 5)

	rec := s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": awardID, "count": 2}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handlers.DrawResponse
	decodeBody(t, rec, &resp)
	if resp.ActualCount != 2 || len(resp.Winners) != 2 || resp.WasPartial {
		t.Errorf("unexpected draw response: %+v", resp)
	}
	if resp.Award.RemainingCount != 3 {
		t.Errorf("expected 3 remaining, got %d", resp.Award.RemainingCount)
	}
	if resp.Epoch != 1 {
		t.Errorf("expected epoch 1, got %d", resp.Epoch)
	}
}

func TestHandleDraw_DefaultCount(t *testing.T) {
	s := newTestSetup(t)
	testutil.AddParticipants(t, s.repo, 10)
	awardID := testutil.AddAward(t, s.repo, "Third Prize", 3, 4)

	rec := s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": awardID}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handlers.DrawResponse
	decodeBody(t, rec, &resp)
	if resp.Requested != 4 || resp.ActualCount != 4 {
		t.Errorf("expected the award draw count to be used, got %+v", resp)
	}
}

func TestHandleDraw_Errors(t *testing.T) {
	s := newTestSetup(t)
	testutil.AddParticipants(t, s.repo, 3)
	awardID := testutil.AddAward(t, s.repo, "Second Prize", 2, 2)
	emptyID := testutil.AddAward(t, s.repo, "Single", 3, 1)
	if rec := s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": emptyID, "count": 1}, true); rec.Code != http.StatusOK {
		t.Fatalf("setup draw failed: %d %s", rec.Code, rec.Body.String())
	}

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"missing award", map[string]int{"count": 1}, http.StatusBadRequest, handlers.ErrCodeBadRequest},
		{"unknown award", map[string]int{"award_id": 999, "count": 1}, http.StatusNotFound, "NO_SUCH_AWARD"},
		{"zero count", map[string]int{"award_id": awardID, "count": 0}, http.StatusBadRequest, "INVALID_COUNT"},
		{"count above award size", map[string]int{"award_id": awardID, "count": 3}, http.StatusBadRequest, "INVALID_COUNT"},
		{"depleted", map[string]int{"award_id": emptyID, "count": 1}, http.StatusConflict, "AWARD_DEPLETED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/lottery/draw", tt.body, true)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			var body errorBody
			decodeBody(t, rec, &body)
			if body.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, body.Code)
			}
		})
	}
}

func TestHandleDraw_InvalidCountDetails(t *testing.T) {
	s := newTestSetup(t)
	testutil.AddParticipants(t, s.repo, 3)
	awardID := testutil.AddAward(t, s.repo, "Second Prize", 2, 2)

	rec := s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": awardID, "count": 7}, true)

	var body errorBody
	decodeBody(t, rec, &body)
	if body.Details["requested"] != 7 || body.Details["available"] != 2 {
		t.Errorf("expected requested/available details, got %+v", body)
	}
}

func TestHandleDraw_DepletedDetails(t *testing.T) {
	s := newTestSetup(t)
	testutil.AddParticipants(t, s.repo, 3)
	awardID := testutil.AddAward(t, s.repo, "Single", 3, 1)
	if rec := s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": awardID, "count": 1}, true); rec.Code != http.StatusOK {
		t.Fatalf("setup draw failed: %d %s", rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": awardID, "count": 1}, true)

	var body errorBody
	decodeBody(t, rec, &body)
	if body.Code != "AWARD_DEPLETED" {
		t.Fatalf("expected AWARD_DEPLETED, got %+v", body)
	}
	if body.Details["requested"] != 1 || body.Details["available"] != 0 {
		t.Errorf("expected requested/available details, got %+v", body)
	}
}

func TestRounds(t *testing.T) {
	s := newTestSetup(t)
	testutil.AddParticipants(t, s.repo, 5)
	awardID := testutil.AddAward(t, s.repo, "Third Prize", 3, 5)

	steps := []struct {
		path   string
		status int
		epoch  int
		state  models.EpochStatus
	}{
		{"/api/lottery/close-round", http.StatusOK, 1, models.EpochClosed},
		{"/api/lottery/next-round", http.StatusConflict, 0, ""},
		{"/api/lottery/open-round", http.StatusOK, 1, models.EpochOpen},
		{"/api/lottery/next-round", http.StatusOK, 2, models.EpochOpen},
	}

	for _, step := range steps {
		rec := s.do(t, http.MethodPost, step.path, nil, true)
		if rec.Code != step.status {
			t.Fatalf("%s: expected %d, got %d: %s", step.path, step.status, rec.Code, rec.Body.String())
		}
		if step.status != http.StatusOK {
			continue
		}
		var resp handlers.RoundResponse
		decodeBody(t, rec, &resp)
		if resp.Epoch != step.epoch || resp.Status != step.state {
			t.Errorf("%s: expected epoch %d %s, got %+v", step.path, step.epoch, step.state, resp)
		}
	}

	// Draws are refused while the round is closed
	s.do(t, http.MethodPost, "/api/lottery/close-round", nil, true)
	rec := s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": awardID, "count": 1}, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body errorBody
	decodeBody(t, rec, &body)
	if body.Code != "ROUND_NOT_OPEN" {
		t.Errorf("expected ROUND_NOT_OPEN, got %s", body.Code)
	}
}

func TestWinners_ListRevokeAndQR(t *testing.T) {
	s := newTestSetup(t)
	ctx := context.Background()
	testutil.AddParticipants(t, s.repo, 6)
	first := testutil.AddAward(t, s.repo, "Third Prize", 3, 3)
	second := testutil.AddAward(t, s.repo, "Fourth Prize", 4, 3)

	s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": first, "count": 2}, true)
	s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": second, "count": 1}, true)

	var all []models.Winner
	decodeBody(t, s.do(t, http.MethodGet, "/api/lottery/winners", nil, false), &all)
	if len(all) != 3 {
		t.Fatalf("expected 3 winners, got %d", len(all))
	}

	var filtered []models.Winner
	decodeBody(t, s.do(t, http.MethodGet, fmt.Sprintf("/api/lottery/winners?award_id=%d", first), nil, false), &filtered)
	if len(filtered) != 2 {
		t.Errorf("expected 2 winners for award %d, got %d", first, len(filtered))
	}

	winnerID := all[0].ID
	qrPath := fmt.Sprintf("/api/lottery/winners/%d/qr", winnerID)

	// No base URL yet
	if rec := s.do(t, http.MethodGet, qrPath, nil, false); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without base URL, got %d", rec.Code)
	}

	s.config.SetBaseURL(ctx, "http://192.168.1.10:8080")
	rec := s.do(t, http.MethodGet, qrPath, nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG data")
	}

	revokePath := fmt.Sprintf("/api/lottery/winners/%d", winnerID)
	if rec := s.do(t, http.MethodDelete, revokePath, nil, true); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on revoke, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodDelete, revokePath, nil, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second revoke, got %d", rec.Code)
	}
	var body errorBody
	decodeBody(t, rec, &body)
	if body.Code != "NO_SUCH_WINNER" {
		t.Errorf("expected NO_SUCH_WINNER, got %s", body.Code)
	}
}

func TestReset(t *testing.T) {
	s := newTestSetup(t)
	testutil.AddParticipants(t, s.repo, 4)
	awardID := testutil.AddAward(t, s.repo, "Third Prize", 3, 4)

	s.do(t, http.MethodPost, "/api/lottery/draw", map[string]int{"award_id": awardID, "count": 2}, true)
	s.do(t, http.MethodPost, "/api/lottery/next-round", nil, true)

	if rec := s.do(t, http.MethodPost, "/api/lottery/reset", nil, true); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var status models.LotteryStatus
	decodeBody(t, s.do(t, http.MethodGet, "/api/lottery/status", nil, false), &status)
	if status.CurrentEpoch != 1 || status.TotalWinners != 0 {
		t.Errorf("expected a fresh lottery, got %+v", status)
	}
	if len(status.Awards) != 1 || status.Awards[0].RemainingCount != 4 {
		t.Errorf("expected inventory restored, got %+v", status.Awards)
	}
}

func TestMultiWinStats(t *testing.T) {
	s := newTestSetup(t)
	testutil.AddParticipants(t, s.repo, 20)

	var stats struct {
		TargetTwo   int `json:"target_two"`
		TargetThree int `json:"target_three"`
	}
	decodeBody(t, s.do(t, http.MethodGet, "/api/lottery/multi-win-stats", nil, false), &stats)
	if stats.TargetTwo != 3 || stats.TargetThree != 1 {
		t.Errorf("expected targets 3/1 for 20 participants, got %+v", stats)
	}
}
