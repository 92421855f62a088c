package draw

import (
	"math"

	"github.com/abrezinsky/prizedraw/internal/models"
)

// CandidateWeight pairs a candidate with the weight computed for one request
type CandidateWeight struct {
	Candidate
	Weight float64
}

// DepartmentSizes counts the full pool per department
func DepartmentSizes(all []models.PoolEntry) map[string]int {
	sizes := make(map[string]int)
	for _, e := range all {
		sizes[e.Department]++
	}
	return sizes
}

// HistoryFactor is decay^wins
func HistoryFactor(wins int, p Params) float64 {
	return math.Pow(p.HistoryDecay, float64(wins))
}

// LevelFactor penalizes award holders, more so for prestigious awards.
// A participant without an award gets 1.
func LevelFactor(highestLevel int, p Params) float64 {
	if highestLevel <= 0 || highestLevel >= models.NoAwardLevel {
		return 1
	}
	return math.Max(0, 1-p.LevelPenalty/float64(highestLevel))
}

// PeerFactor grows logarithmically with department size
func PeerFactor(deptSize int, p Params) float64 {
	if deptSize <= 1 {
		return 1
	}
	return 1 + p.PeerGroupScale*math.Log(float64(deptSize))
}

// BaseWeight is the weight of c before jitter
func BaseWeight(c Candidate, deptSize int, p Params) float64 {
	base := c.Weight
	if base < 0 {
		base = 0
	}
	return base *
		HistoryFactor(c.WinCount, p) *
		LevelFactor(c.HighestAwardLevel, p) *
		PeerFactor(deptSize, p) *
		c.Bonus
}

// Weigh computes the weight of every candidate once, drawing a fresh jitter
// for each. The input is not modified.
func Weigh(cands []Candidate, deptSizes map[string]int, p Params, rng RandomSource) []CandidateWeight {
	out := make([]CandidateWeight, len(cands))
	for i, c := range cands {
		jitter := 1 + p.Jitter*(2*rng.Float64()-1)
		out[i] = CandidateWeight{
			Candidate: c,
			Weight:    BaseWeight(c, deptSizes[c.Department], p) * jitter,
		}
	}
	return out
}

// TotalWeight sums the positive weights of pool
func TotalWeight(pool []CandidateWeight) float64 {
	var total float64
	for _, cw := range pool {
		if cw.Weight > 0 {
			total += cw.Weight
		}
	}
	return total
}
