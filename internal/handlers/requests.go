package handlers

// LoginRequest represents an admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// DrawRequest represents a request to draw winners for one award.
// A missing count uses the award's configured draw count.
type DrawRequest struct {
	AwardID int  `json:"award_id"`
	Count   *int `json:"count"`
}

// MultiWinConfigRequest represents an update to the multi-win settings.
// Omitted fields keep their current value.
type MultiWinConfigRequest struct {
	TwoWinPercentage   *int  `json:"two_win_percentage"`
	ThreeWinPercentage *int  `json:"three_win_percentage"`
	MinEpochInterval   *int  `json:"min_epoch_interval"`
	Enabled            *bool `json:"enabled"`
	CoverageMode       *bool `json:"coverage_mode"`
}

// SystemConfigRequest represents an update to the display settings
type SystemConfigRequest struct {
	WinnerDisplayDelayMS *int    `json:"winner_display_delay_ms"`
	BaseURL              *string `json:"base_url"`
}

// ParticipantCreateRequest represents a request to register a participant
type ParticipantCreateRequest struct {
	Name       string  `json:"name"`
	Department string  `json:"department"`
	EmployeeID string  `json:"employee_id"`
	Weight     float64 `json:"weight"`
}

// AwardCreateRequest represents a request to create an award
type AwardCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	Count       int    `json:"count"`
	DrawCount   int    `json:"draw_count"`
}
