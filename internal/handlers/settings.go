package handlers

import (
	"net/http"
	"strings"
)

func (h *Handlers) handleGetMultiWinConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Config.GetMultiWinConfig(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, cfg)
}

func (h *Handlers) handleUpdateMultiWinConfig(w http.ResponseWriter, r *http.Request) {
	var req MultiWinConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	cfg, err := h.Config.GetMultiWinConfig(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.TwoWinPercentage != nil {
		cfg.TwoWinPercentage = *req.TwoWinPercentage
	}
	if req.ThreeWinPercentage != nil {
		cfg.ThreeWinPercentage = *req.ThreeWinPercentage
	}
	if req.MinEpochInterval != nil {
		cfg.MinEpochInterval = *req.MinEpochInterval
	}
	if req.Enabled != nil {
		cfg.Enabled = *req.Enabled
	}
	if req.CoverageMode != nil {
		cfg.CoverageMode = *req.CoverageMode
	}

	if err := h.Config.UpdateMultiWinConfig(r.Context(), cfg); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, cfg)
}

func (h *Handlers) handleGetSystemConfig(w http.ResponseWriter, r *http.Request) {
	resp, err := h.systemConfig(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, resp)
}

func (h *Handlers) handleUpdateSystemConfig(w http.ResponseWriter, r *http.Request) {
	var req SystemConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if req.WinnerDisplayDelayMS != nil {
		cfg, err := h.Config.GetSystemConfig(r.Context())
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		cfg.WinnerDisplayDelayMS = *req.WinnerDisplayDelayMS
		if err := h.Config.UpdateSystemConfig(r.Context(), cfg); err != nil {
			h.respondError(w, r, err)
			return
		}
	}
	if req.BaseURL != nil {
		if err := h.Config.SetBaseURL(r.Context(), strings.TrimSpace(*req.BaseURL)); err != nil {
			h.respondError(w, r, err)
			return
		}
	}

	resp, err := h.systemConfig(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, resp)
}

func (h *Handlers) systemConfig(r *http.Request) (*SystemConfigResponse, error) {
	cfg, err := h.Config.GetSystemConfig(r.Context())
	if err != nil {
		return nil, err
	}
	baseURL, err := h.Config.GetBaseURL(r.Context())
	if err != nil {
		return nil, err
	}
	return &SystemConfigResponse{
		WinnerDisplayDelayMS: cfg.WinnerDisplayDelayMS,
		BaseURL:              baseURL,
	}, nil
}
