package models

import (
	"time"

	"github.com/abrezinsky/prizedraw/internal/errors"
)

// NoAwardLevel is the highest_award_level of a participant who holds no award.
// Any real award level sorts before it.
const NoAwardLevel = 100

// Participant represents a person in the draw pool
type Participant struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Department        string  `json:"department"`
	EmployeeID        string  `json:"employee_id,omitempty"`
	Weight            float64 `json:"weight"`
	WinCount          int     `json:"win_count"`
	HighestAwardLevel int     `json:"highest_award_level"` // Numerically lowest level won, NoAwardLevel if none
	HasWon            bool    `json:"has_won"`
}

// HoldsAward reports whether the participant has won anything
func (p Participant) HoldsAward() bool {
	return p.HighestAwardLevel < NoAwardLevel
}

// Award represents a prize with finite inventory
type Award struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Level          int    `json:"level"` // 1 is the most prestigious
	Count          int    `json:"count"`
	RemainingCount int    `json:"remaining_count"`
	DrawCount      int    `json:"draw_count"` // Default units per draw operation
}

// Winner records one unit of an award won by a participant
type Winner struct {
	ID              int       `json:"id"`
	ParticipantID   int       `json:"participant_id"`
	AwardID         int       `json:"award_id"`
	Epoch           int       `json:"epoch"`
	ClaimCode       string    `json:"claim_code"`
	DrawTime        time.Time `json:"draw_time"`
	ParticipantName string    `json:"participant_name,omitempty"`
	Department      string    `json:"department,omitempty"`
	AwardName       string    `json:"award_name,omitempty"`
	AwardLevel      int       `json:"award_level,omitempty"`
}

// EpochStatus is the state of a draw round
type EpochStatus string

const (
	EpochOpen   EpochStatus = "open"
	EpochClosed EpochStatus = "closed"
)

// Epoch is a draw round. The current epoch is the one with the highest ID.
type Epoch struct {
	ID        int         `json:"id"`
	Number    int         `json:"number"`
	Status    EpochStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsOpen reports whether draws are accepted in this epoch
func (e Epoch) IsOpen() bool {
	return e.Status == EpochOpen
}

// PoolEntry is a participant annotated with the derived stats the
// eligibility rules need for one award in one epoch.
type PoolEntry struct {
	Participant
	LastWinEpoch int  `json:"last_win_epoch"` // 0 if never won
	WonThisEpoch bool `json:"won_this_epoch"`
	WonThisAward bool `json:"won_this_award"`
}

// MultiWinConfig tunes the target distribution of repeat winners
type MultiWinConfig struct {
	TwoWinPercentage   int  `json:"two_win_percentage"`
	ThreeWinPercentage int  `json:"three_win_percentage"`
	MinEpochInterval   int  `json:"min_epoch_interval"`
	Enabled            bool `json:"enabled"`
	CoverageMode       bool `json:"coverage_mode"` // Prefer never-won participants while inventory covers them
}

// Limits for MultiWinConfig fields
const (
	MaxWinPercentage    = 50
	MaxMinEpochInterval = 10
)

// DefaultMultiWinConfig returns the documented defaults
func DefaultMultiWinConfig() MultiWinConfig {
	return MultiWinConfig{
		TwoWinPercentage:   15,
		ThreeWinPercentage: 8,
		MinEpochInterval:   2,
		Enabled:            true,
		CoverageMode:       false,
	}
}

// Validate checks field ranges
func (c MultiWinConfig) Validate() error {
	if c.TwoWinPercentage < 0 || c.TwoWinPercentage > MaxWinPercentage {
		return errors.Validationf("two_win_percentage must be between 0 and %d", MaxWinPercentage)
	}
	if c.ThreeWinPercentage < 0 || c.ThreeWinPercentage > MaxWinPercentage {
		return errors.Validationf("three_win_percentage must be between 0 and %d", MaxWinPercentage)
	}
	if c.TwoWinPercentage+c.ThreeWinPercentage > 100 {
		return errors.Validation("two_win_percentage + three_win_percentage must not exceed 100")
	}
	if c.MinEpochInterval < 0 || c.MinEpochInterval > MaxMinEpochInterval {
		return errors.Validationf("min_epoch_interval must be between 0 and %d", MaxMinEpochInterval)
	}
	return nil
}

// SystemConfig holds display settings shared with screen clients
type SystemConfig struct {
	WinnerDisplayDelayMS int `json:"winner_display_delay_ms"`
}

// DefaultSystemConfig returns the documented defaults
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{WinnerDisplayDelayMS: 500}
}

// Validate checks field ranges
func (c SystemConfig) Validate() error {
	if c.WinnerDisplayDelayMS < 0 {
		return errors.Validation("winner_display_delay_ms must not be negative")
	}
	return nil
}

// WinDistribution counts participants by number of wins
type WinDistribution struct {
	Total     int `json:"total"`
	ZeroWins  int `json:"zero_wins"`
	OneWin    int `json:"one_win"`
	TwoWins   int `json:"two_wins"`
	ThreeWins int `json:"three_wins"`
}

// Share returns the fraction of participants with exactly k wins
func (d WinDistribution) Share(k int) float64 {
	if d.Total == 0 {
		return 0
	}
	var n int
	switch k {
	case 0:
		n = d.ZeroWins
	case 1:
		n = d.OneWin
	case 2:
		n = d.TwoWins
	case 3:
		n = d.ThreeWins
	}
	return float64(n) / float64(d.Total)
}

// LotteryStatus is a snapshot of the draw for display clients
type LotteryStatus struct {
	CurrentEpoch          int             `json:"current_epoch"`
	EpochStatus           EpochStatus     `json:"epoch_status"`
	Awards                []Award         `json:"awards"`
	AvailableParticipants int             `json:"available_participants"`
	TotalParticipants     int             `json:"total_participants"`
	TotalWinners          int             `json:"total_winners"`
	Distribution          WinDistribution `json:"distribution"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
