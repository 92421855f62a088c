package handlers

import (
	"github.com/abrezinsky/prizedraw/internal/models"
)

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// DrawResponse is the response for a draw
type DrawResponse struct {
	Award       models.Award    `json:"award"`
	Epoch       int             `json:"epoch"`
	Requested   int             `json:"requested"`
	ActualCount int             `json:"actual_count"`
	WasPartial  bool            `json:"was_partial"`
	Winners     []models.Winner `json:"winners"`
}

// RoundResponse is the response for round transitions
type RoundResponse struct {
	Epoch  int                `json:"epoch"`
	Status models.EpochStatus `json:"status"`
}

// SystemConfigResponse is the response for display settings
type SystemConfigResponse struct {
	WinnerDisplayDelayMS int    `json:"winner_display_delay_ms"`
	BaseURL              string `json:"base_url"`
}

// CreatedResponse is the response for created resources
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
}
