package handlers

import (
	"net/http"

	"github.com/abrezinsky/prizedraw/internal/models"
)

func (h *Handlers) handleGetParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.Roster.ListParticipants(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	respondOK(w, participants)
}

func (h *Handlers) handleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req ParticipantCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	id, err := h.Roster.CreateParticipant(r.Context(), models.Participant{
		Name:       req.Name,
		Department: req.Department,
		EmployeeID: req.EmployeeID,
		Weight:     req.Weight,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, CreatedResponse{ID: id})
}

func (h *Handlers) handleGetAwards(w http.ResponseWriter, r *http.Request) {
	awards, err := h.Roster.ListAwards(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if awards == nil {
		awards = []models.Award{}
	}
	respondOK(w, awards)
}

func (h *Handlers) handleCreateAward(w http.ResponseWriter, r *http.Request) {
	var req AwardCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	id, err := h.Roster.CreateAward(r.Context(), models.Award{
		Name:        req.Name,
		Description: req.Description,
		Level:       req.Level,
		Count:       req.Count,
		DrawCount:   req.DrawCount,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, CreatedResponse{ID: id})
}
