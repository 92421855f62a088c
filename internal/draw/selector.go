package draw

// Pick chooses one index from pool by cumulative weight.
//
// An empty pool yields false. A single entry is always chosen. When no
// entry has positive weight the choice is uniform; otherwise entries with
// zero weight are never chosen.
func Pick(pool []CandidateWeight, rng RandomSource) (int, bool) {
	switch len(pool) {
	case 0:
		return -1, false
	case 1:
		return 0, true
	}

	total := TotalWeight(pool)
	if total <= 0 {
		return rng.IntN(len(pool)), true
	}

	target := rng.Float64() * total
	var cumulative float64
	last := -1
	for i, cw := range pool {
		if cw.Weight <= 0 {
			continue
		}
		cumulative += cw.Weight
		last = i
		if cumulative >= target {
			return i, true
		}
	}
	// Float rounding can leave target a hair above the final sum
	return last, true
}

// Sample draws up to n distinct candidates from pool without replacement.
// Fewer than n are returned when the pool runs out.
//
// With preferNeverWon set, candidates with no prior wins are drawn first,
// uniformly, until none remain; the rest are drawn by weight.
func Sample(pool []CandidateWeight, n int, preferNeverWon bool, rng RandomSource) []CandidateWeight {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	remaining := make([]CandidateWeight, len(pool))
	copy(remaining, pool)
	picks := make([]CandidateWeight, 0, min(n, len(pool)))

	take := func(i int) {
		picks = append(picks, remaining[i])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}

	if preferNeverWon {
		for len(picks) < n {
			var fresh []int
			for i, cw := range remaining {
				if cw.WinCount == 0 {
					fresh = append(fresh, i)
				}
			}
			if len(fresh) == 0 {
				break
			}
			take(fresh[rng.IntN(len(fresh))])
		}
	}

	for len(picks) < n {
		i, ok := Pick(remaining, rng)
		if !ok {
			break
		}
		take(i)
	}
	return picks
}
