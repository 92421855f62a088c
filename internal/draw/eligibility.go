package draw

import (
	"github.com/abrezinsky/prizedraw/internal/models"
)

// Reason names the rule that excludes a participant from a draw
type Reason string

const (
	Eligible         Reason = ""
	ReasonWinCap     Reason = "win_cap_reached"
	ReasonLevelHeld  Reason = "exclusive_level_held"
	ReasonWonInEpoch Reason = "won_in_current_epoch"
	ReasonWonAward   Reason = "already_won_award"
	ReasonTooSoon    Reason = "min_epoch_interval"
)

// Ineligibility returns the first rule that excludes e from drawing award
// in epoch, or Eligible.
func Ineligibility(e models.PoolEntry, award models.Award, epoch, minInterval int, p Params) Reason {
	switch {
	case e.WinCount >= p.MaxWins:
		return ReasonWinCap
	case e.HighestAwardLevel <= p.ExclusiveLevel && award.Level <= p.ExclusiveLevel:
		return ReasonLevelHeld
	case e.WonThisEpoch:
		return ReasonWonInEpoch
	case e.WonThisAward:
		return ReasonWonAward
	case e.WinCount > 0 && epoch-e.LastWinEpoch < minInterval:
		return ReasonTooSoon
	}
	return Eligible
}

// FilterEligible returns the entries of pool that may win award in epoch.
// Order is preserved and pool is not modified.
func FilterEligible(pool []models.PoolEntry, award models.Award, epoch, minInterval int, p Params) []models.PoolEntry {
	out := make([]models.PoolEntry, 0, len(pool))
	for _, e := range pool {
		if Ineligibility(e, award, epoch, minInterval, p) == Eligible {
			out = append(out, e)
		}
	}
	return out
}
