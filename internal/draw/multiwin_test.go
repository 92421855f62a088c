package draw

import (
	"testing"

	"github.com/abrezinsky/prizedraw/internal/models"
)

// poolWithBuckets builds n0 never-won, n1 once, n2 twice and n3 thrice
// winners, all in one department, last won in epoch 1.
func poolWithBuckets(n0, n1, n2, n3 int) []models.PoolEntry {
	var pool []models.PoolEntry
	id := 1
	add := func(n, wins int) {
		for i := 0; i < n; i++ {
			level := models.NoAwardLevel
			last := 0
			if wins > 0 {
				level, last = 3, 1
			}
			pool = append(pool, entry(id, "ops", wins, level, last))
			id++
		}
	}
	add(n0, 0)
	add(n1, 1)
	add(n2, 2)
	add(n3, 3)
	return pool
}

func TestComputeTargets(t *testing.T) {
	pool := poolWithBuckets(60, 30, 5, 5)
	cfg := models.MultiWinConfig{TwoWinPercentage: 15, ThreeWinPercentage: 8, Enabled: true}

	got := ComputeTargets(pool, cfg)

	if got.Total != 100 {
		t.Errorf("expected total 100, got %d", got.Total)
	}
	if got.Buckets != [4]int{60, 30, 5, 5} {
		t.Errorf("unexpected buckets %v", got.Buckets)
	}
	if got.TargetTwo != 15 || got.TargetThree != 8 {
		t.Errorf("expected targets 15/8, got %d/%d", got.TargetTwo, got.TargetThree)
	}
	if got.GapTwo != 10 || got.GapThree != 3 {
		t.Errorf("expected gaps 10/3, got %d/%d", got.GapTwo, got.GapThree)
	}
}

func TestComputeTargets_FloorsAndClampsGaps(t *testing.T) {
	pool := poolWithBuckets(3, 0, 5, 0) // total 8
	cfg := models.MultiWinConfig{TwoWinPercentage: 15, ThreeWinPercentage: 8, Enabled: true}

	got := ComputeTargets(pool, cfg)

	// floor(8*15/100) = 1, floor(8*8/100) = 0
	if got.TargetTwo != 1 || got.TargetThree != 0 {
		t.Errorf("expected targets 1/0, got %d/%d", got.TargetTwo, got.TargetThree)
	}
	if got.GapTwo != 0 {
		t.Errorf("expected gap clamped to 0, got %d", got.GapTwo)
	}
}

func TestShapePool_Disabled(t *testing.T) {
	pool := poolWithBuckets(3, 4, 2, 0)
	cfg := models.MultiWinConfig{Enabled: false}

	got := ShapePool(pool, pool, cfg, DefaultParams(), 1, NewSeededSource(1))

	if len(got) != len(pool) {
		t.Fatalf("expected all %d entries, got %d", len(pool), len(got))
	}
	for i, c := range got {
		if c.ID != pool[i].ID {
			t.Errorf("position %d: expected id %d, got %d", i, pool[i].ID, c.ID)
		}
		if c.Bonus != 1 {
			t.Errorf("expected bonus 1, got %v", c.Bonus)
		}
	}
}

func TestShapePool_AlwaysIncludesNeverWon(t *testing.T) {
	pool := poolWithBuckets(10, 10, 10, 0)
	// Both gaps are zero: 10 two-time winners already exceed any target
	cfg := models.MultiWinConfig{TwoWinPercentage: 5, ThreeWinPercentage: 0, Enabled: true}

	got := ShapePool(pool, pool, cfg, DefaultParams(), 1, NewSeededSource(1))

	if len(got) != 10 {
		t.Fatalf("expected only the 10 never-won entries, got %d", len(got))
	}
	for _, c := range got {
		if c.WinCount != 0 || c.Bonus != 1 {
			t.Errorf("unexpected candidate %+v", c)
		}
	}
}

func TestShapePool_ReturnsRepeatWinnersWithBonus(t *testing.T) {
	pool := poolWithBuckets(60, 30, 5, 5)
	cfg := models.MultiWinConfig{TwoWinPercentage: 15, ThreeWinPercentage: 8, Enabled: true}
	p := DefaultParams()

	got := ShapePool(pool, pool, cfg, p, 1, NewSeededSource(7))

	counts := map[int]int{}
	for _, c := range got {
		counts[c.WinCount]++
		switch c.WinCount {
		case 0:
			if c.Bonus != 1 {
				t.Errorf("never-won bonus: expected 1, got %v", c.Bonus)
			}
		case 1:
			if c.Bonus != p.OnceWinnerBonus {
				t.Errorf("once-winner bonus: expected %v, got %v", p.OnceWinnerBonus, c.Bonus)
			}
		case 2:
			if c.Bonus != p.TwiceWinnerBonus {
				t.Errorf("twice-winner bonus: expected %v, got %v", p.TwiceWinnerBonus, c.Bonus)
			}
		default:
			t.Errorf("three-time winner admitted: %+v", c)
		}
	}

	// gap2 = 10 -> min(30, 20) = 20; gap3 = 3 -> min(5, 6) = 5
	if counts[0] != 60 || counts[1] != 20 || counts[2] != 5 {
		t.Errorf("expected 60/20/5, got %d/%d/%d", counts[0], counts[1], counts[2])
	}
}

func TestShapePool_SubsetOfEligible(t *testing.T) {
	all := poolWithBuckets(20, 20, 5, 0)
	// Only even ids survive the filter
	var eligible []models.PoolEntry
	for _, e := range all {
		if e.ID%2 == 0 {
			eligible = append(eligible, e)
		}
	}
	cfg := models.MultiWinConfig{TwoWinPercentage: 50, ThreeWinPercentage: 50, Enabled: true}

	got := ShapePool(all, eligible, cfg, DefaultParams(), 1, NewSeededSource(3))

	for _, c := range got {
		if c.ID%2 != 0 {
			t.Errorf("candidate %d was not eligible", c.ID)
		}
	}
}

func TestShapePool_DoesNotModifyInput(t *testing.T) {
	pool := poolWithBuckets(5, 10, 0, 0)
	before := make([]models.PoolEntry, len(pool))
	copy(before, pool)
	cfg := models.MultiWinConfig{TwoWinPercentage: 50, Enabled: true}

	ShapePool(pool, pool, cfg, DefaultParams(), 1, NewSeededSource(11))

	for i := range pool {
		if pool[i] != before[i] {
			t.Fatalf("input reordered or modified at %d", i)
		}
	}
}

func TestShapePool_CoversShortfallWithHeldBackWinners(t *testing.T) {
	pool := poolWithBuckets(10, 10, 10, 0)
	// Both gaps are zero
	cfg := models.MultiWinConfig{TwoWinPercentage: 5, ThreeWinPercentage: 0, Enabled: true}

	got := ShapePool(pool, pool, cfg, DefaultParams(), 15, NewSeededSource(2))

	if len(got) != 15 {
		t.Fatalf("expected 10 never-won plus 5 held back, got %d", len(got))
	}
	never := 0
	for _, c := range got {
		if c.WinCount == 0 {
			never++
		}
		if c.Bonus != 1 {
			t.Errorf("expected bonus 1 outside an open gap, got %+v", c)
		}
	}
	if never != 10 {
		t.Errorf("expected every never-won entry, got %d", never)
	}
}

func TestShapePool_OnlyRepeatWinnersEligible(t *testing.T) {
	// 8 once and 2 twice winners out of 10: 15%/8% targets give 1/0, gap 0/0
	pool := poolWithBuckets(0, 8, 2, 0)
	cfg := models.MultiWinConfig{TwoWinPercentage: 15, ThreeWinPercentage: 8, MinEpochInterval: 1, Enabled: true}

	targets := ComputeTargets(pool, cfg)
	if targets.GapTwo != 0 || targets.GapThree != 0 {
		t.Fatalf("expected closed gaps, got %+v", targets)
	}

	for _, want := range []int{1, 3, 20} {
		got := ShapePool(pool, pool, cfg, DefaultParams(), want, NewSeededSource(5))
		if exp := min(want, len(pool)); len(got) != exp {
			t.Errorf("want %d: expected %d candidates, got %d", want, exp, len(got))
		}
	}
}

func TestEngineSelect_TargetsMetStillDraws(t *testing.T) {
	pool := poolWithBuckets(0, 8, 2, 0)
	cfg := models.MultiWinConfig{TwoWinPercentage: 15, ThreeWinPercentage: 8, MinEpochInterval: 1, Enabled: true}
	engine := NewEngine(DefaultParams(), NewSeededSource(9))

	out := engine.Select(Request{
		Pool:   pool,
		Award:  models.Award{ID: 99, Level: 4, Count: 2, RemainingCount: 2},
		Epoch:  3,
		Count:  2,
		Config: cfg,
	})

	if out.Eligible != 10 {
		t.Fatalf("expected all 10 eligible, got %d", out.Eligible)
	}
	if len(out.Picks) != 2 {
		t.Errorf("expected 2 picks from %d eligible, got %d (shaped %d)", out.Eligible, len(out.Picks), out.Shaped)
	}
}
