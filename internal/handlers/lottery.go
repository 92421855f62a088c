package handlers

import (
	"context"
	"net/http"

	"github.com/abrezinsky/prizedraw/internal/models"
)

// ==================== Draws ====================

func (h *Handlers) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req DrawRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.AwardID <= 0 {
		h.respondError(w, r, BadRequest("award_id is required"))
		return
	}

	count := 0
	if req.Count != nil {
		count = *req.Count
	} else {
		var err error
		if count, err = h.defaultDrawCount(r, req.AwardID); err != nil {
			h.respondError(w, r, err)
			return
		}
	}

	result, err := h.Lottery.Draw(r.Context(), req.AwardID, count)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondOK(w, DrawResponse{
		Award:       result.Award,
		Epoch:       result.Epoch,
		Requested:   result.Requested,
		ActualCount: result.ActualCount,
		WasPartial:  result.WasPartial,
		Winners:     result.Winners,
	})
}

// defaultDrawCount returns the award's configured units per draw. Unknown
// awards fall through to the draw so the caller gets NO_SUCH_AWARD.
func (h *Handlers) defaultDrawCount(r *http.Request, awardID int) (int, error) {
	awards, err := h.Roster.ListAwards(r.Context())
	if err != nil {
		return 0, err
	}
	for _, a := range awards {
		if a.ID == awardID {
			return a.DrawCount, nil
		}
	}
	return 1, nil
}

// ==================== Rounds ====================

func (h *Handlers) handleNextRound(w http.ResponseWriter, r *http.Request) {
	h.respondRound(w, r, h.Lottery.AdvanceRound)
}

func (h *Handlers) handleCloseRound(w http.ResponseWriter, r *http.Request) {
	h.respondRound(w, r, h.Lottery.CloseRound)
}

func (h *Handlers) handleOpenRound(w http.ResponseWriter, r *http.Request) {
	h.respondRound(w, r, h.Lottery.OpenRound)
}

func (h *Handlers) respondRound(w http.ResponseWriter, r *http.Request, transition func(ctx context.Context) (*models.Epoch, error)) {
	epoch, err := transition(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, RoundResponse{Epoch: epoch.Number, Status: epoch.Status})
}

func (h *Handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.Lottery.Reset(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondSuccess(w, "Lottery reset")
}

// ==================== Winners ====================

func (h *Handlers) handleGetWinners(w http.ResponseWriter, r *http.Request) {
	awardID, err := parseOptionalIntQuery(r, "award_id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	winners, err := h.Lottery.ListWinners(r.Context(), awardID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, winners)
}

func (h *Handlers) handleRevokeWinner(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.Lottery.RevokeWin(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondSuccess(w, "Win revoked")
}

func (h *Handlers) handleWinnerQR(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	png, err := h.Lottery.ClaimQR(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// ==================== Status ====================

func (h *Handlers) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Lottery.Status(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, status)
}

func (h *Handlers) handleGetMultiWinStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Lottery.WinDistribution(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, stats)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.Hub != nil {
		resp.Clients = h.Hub.ClientCount()
	}
	if err := h.Lottery.Ping(r.Context()); err != nil {
		h.Log.Warn("Health check failed", "error", err)
		resp.Status = "unavailable"
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	respondOK(w, resp)
}
