package draw

import (
	"github.com/abrezinsky/prizedraw/internal/errors"
)

// Params are the engine tuning constants. They are loaded once at startup
// and never change during a draw.
type Params struct {
	// HistoryDecay multiplies the weight once per prior win. In (0, 1).
	HistoryDecay float64 `mapstructure:"history_decay" json:"history_decay"`
	// LevelPenalty scales the penalty for holding an award: 1 - LevelPenalty/level.
	LevelPenalty float64 `mapstructure:"level_penalty" json:"level_penalty"`
	// PeerGroupScale weights the department size bonus: 1 + scale*ln(size).
	PeerGroupScale float64 `mapstructure:"peer_group_scale" json:"peer_group_scale"`
	// Jitter is the half-width of the uniform multiplier around 1.
	Jitter float64 `mapstructure:"jitter" json:"jitter"`
	// OnceWinnerBonus and TwiceWinnerBonus boost repeat-win candidates the
	// multi-win controller returns to the pool.
	OnceWinnerBonus  float64 `mapstructure:"once_winner_bonus" json:"once_winner_bonus"`
	TwiceWinnerBonus float64 `mapstructure:"twice_winner_bonus" json:"twice_winner_bonus"`
	// ReturnPoolFactor is how many candidates are returned per missing repeat winner.
	ReturnPoolFactor float64 `mapstructure:"return_pool_factor" json:"return_pool_factor"`
	// MaxWins is the lifetime cap per participant. The store enforces 3.
	MaxWins int `mapstructure:"max_wins" json:"max_wins"`
	// ExclusiveLevel: holders of a level <= ExclusiveLevel award cannot win
	// another award at level <= ExclusiveLevel.
	ExclusiveLevel int `mapstructure:"exclusive_level" json:"exclusive_level"`
}

// DefaultParams returns the documented defaults
func DefaultParams() Params {
	return Params{
		HistoryDecay:     0.5,
		LevelPenalty:     0.5,
		PeerGroupScale:   0.1,
		Jitter:           0.2,
		OnceWinnerBonus:  2.0,
		TwiceWinnerBonus: 3.0,
		ReturnPoolFactor: 2.0,
		MaxWins:          3,
		ExclusiveLevel:   2,
	}
}

// Validate checks that the parameters keep every weight finite and non-negative
func (p Params) Validate() error {
	switch {
	case p.HistoryDecay <= 0 || p.HistoryDecay >= 1:
		return errors.Validation("engine.history_decay must be in (0, 1)")
	case p.LevelPenalty < 0 || p.LevelPenalty >= 1:
		return errors.Validation("engine.level_penalty must be in [0, 1)")
	case p.PeerGroupScale < 0:
		return errors.Validation("engine.peer_group_scale must not be negative")
	case p.Jitter < 0 || p.Jitter >= 1:
		return errors.Validation("engine.jitter must be in [0, 1)")
	case p.OnceWinnerBonus <= 0 || p.TwiceWinnerBonus <= 0:
		return errors.Validation("engine winner bonuses must be positive")
	case p.ReturnPoolFactor < 0:
		return errors.Validation("engine.return_pool_factor must not be negative")
	case p.MaxWins < 1 || p.MaxWins > 3:
		return errors.Validation("engine.max_wins must be between 1 and 3")
	case p.ExclusiveLevel < 0:
		return errors.Validation("engine.exclusive_level must not be negative")
	}
	return nil
}
