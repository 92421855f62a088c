package draw

import (
	"math"

	"github.com/abrezinsky/prizedraw/internal/models"
)

// Candidate is an eligible pool entry with the multi-win bonus the
// controller assigned to it. Values are never modified after creation.
type Candidate struct {
	models.PoolEntry
	Bonus float64
}

// Targets is the controller's view of the repeat-winner distribution
type Targets struct {
	Total       int
	Buckets     [4]int // participants by win count, 3 includes anything above
	TargetTwo   int
	TargetThree int
	GapTwo      int
	GapThree    int
}

// ComputeTargets partitions the full pool by win count and derives the
// number of two and three time winners the configuration asks for.
func ComputeTargets(all []models.PoolEntry, cfg models.MultiWinConfig) Targets {
	t := Targets{Total: len(all)}
	for _, e := range all {
		k := e.WinCount
		if k > 3 {
			k = 3
		}
		if k < 0 {
			k = 0
		}
		t.Buckets[k]++
	}
	t.TargetTwo = t.Total * cfg.TwoWinPercentage / 100
	t.TargetThree = t.Total * cfg.ThreeWinPercentage / 100
	t.GapTwo = max(0, t.TargetTwo-t.Buckets[2])
	t.GapThree = max(0, t.TargetThree-t.Buckets[3])
	return t
}

// ShapePool applies the multi-win controller to the eligible entries.
//
// all is the full participant pool and drives the bucket sizes and targets.
// eligible is the output of FilterEligible over the same pool; the result
// is always a subset of it, so the controller can never re-admit an entry
// the filter rejected. Every never-won entry is kept. Repeat winners are
// admitted while their next bucket is below target, in random order, and
// carry the matching bonus. The rest are held back.
//
// want is the number of picks the caller needs. When fewer candidates than
// that were admitted, held-back repeat winners are added with a bonus of 1
// to cover the shortfall, so the result is only empty when eligible is.
//
// When the controller is disabled every eligible entry is returned with a
// bonus of 1.
func ShapePool(all, eligible []models.PoolEntry, cfg models.MultiWinConfig, p Params, want int, rng RandomSource) []Candidate {
	if !cfg.Enabled {
		out := make([]Candidate, len(eligible))
		for i, e := range eligible {
			out[i] = Candidate{PoolEntry: e, Bonus: 1}
		}
		return out
	}

	t := ComputeTargets(all, cfg)

	var never, once, twice []models.PoolEntry
	for _, e := range eligible {
		switch e.WinCount {
		case 0:
			never = append(never, e)
		case 1:
			once = append(once, e)
		case 2:
			twice = append(twice, e)
		}
	}

	out := make([]Candidate, 0, len(eligible))
	for _, e := range never {
		out = append(out, Candidate{PoolEntry: e, Bonus: 1})
	}
	var held []models.PoolEntry
	out, held = appendReturned(out, held, once, t.GapTwo, p.ReturnPoolFactor, p.OnceWinnerBonus, rng)
	out, held = appendReturned(out, held, twice, t.GapThree, p.ReturnPoolFactor, p.TwiceWinnerBonus, rng)

	if short := want - len(out); short > 0 && len(held) > 0 {
		shuffle(held, rng)
		for _, e := range held[:min(short, len(held))] {
			out = append(out, Candidate{PoolEntry: e, Bonus: 1})
		}
	}
	return out
}

// appendReturned admits up to ceil(gap*factor) randomly chosen members of
// bucket and appends the others to held.
func appendReturned(out []Candidate, held, bucket []models.PoolEntry, gap int, factor, bonus float64, rng RandomSource) ([]Candidate, []models.PoolEntry) {
	if len(bucket) == 0 {
		return out, held
	}
	n := 0
	if gap > 0 {
		n = min(len(bucket), int(math.Ceil(float64(gap)*factor)))
	}
	picked := make([]models.PoolEntry, len(bucket))
	copy(picked, bucket)
	if n > 0 {
		shuffle(picked, rng)
	}
	for _, e := range picked[:n] {
		out = append(out, Candidate{PoolEntry: e, Bonus: bonus})
	}
	return out, append(held, picked[n:]...)
}
