// Command drawsim runs a seeded lottery against an in-memory database and
// reports how wins were distributed against the multi-win targets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/abrezinsky/prizedraw/internal/draw"
	"github.com/abrezinsky/prizedraw/internal/logger"
	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/repository"
	"github.com/abrezinsky/prizedraw/internal/seed"
	"github.com/abrezinsky/prizedraw/internal/services"
)

// options describes one simulation batch
type options struct {
	Participants int
	Departments  int
	Rounds       int
	Runs         int
	Seed         int64
	Fixture      string
	MultiWin     models.MultiWinConfig
	Engine       draw.Params
}

// runResult is the outcome of a single seeded run
type runResult struct {
	Seed         int64
	Draws        int
	Partial      int
	Skipped      int
	Distribution models.WinDistribution
	TargetTwo    int
	TargetThree  int
	ByLevel      map[int]int
}

func main() {
	opts := options{
		MultiWin: models.DefaultMultiWinConfig(),
		Engine:   draw.DefaultParams(),
	}
	flag.IntVar(&opts.Participants, "participants", 500, "Number of generated participants")
	flag.IntVar(&opts.Departments, "departments", 8, "Number of departments")
	flag.IntVar(&opts.Rounds, "rounds", 6, "Rounds per run")
	flag.IntVar(&opts.Runs, "runs", 1, "Number of runs with consecutive seeds")
	flag.Int64Var(&opts.Seed, "seed", 1, "Seed of the first run")
	flag.StringVar(&opts.Fixture, "fixture", "", "Seed fixture to use instead of generated participants")
	flag.IntVar(&opts.MultiWin.TwoWinPercentage, "twopct", opts.MultiWin.TwoWinPercentage, "Target percentage of two-time winners")
	flag.IntVar(&opts.MultiWin.ThreeWinPercentage, "threepct", opts.MultiWin.ThreeWinPercentage, "Target percentage of three-time winners")
	flag.IntVar(&opts.MultiWin.MinEpochInterval, "interval", opts.MultiWin.MinEpochInterval, "Minimum rounds between two wins")
	flag.BoolVar(&opts.MultiWin.CoverageMode, "coverage", false, "Prefer participants who have not won yet")
	nomulti := flag.Bool("nomulti", false, "Disable repeat winners")
	flag.Float64Var(&opts.Engine.Jitter, "jitter", opts.Engine.Jitter, "Weight jitter half-width")
	flag.Float64Var(&opts.Engine.HistoryDecay, "decay", opts.Engine.HistoryDecay, "Weight decay per prior win")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `drawsim - Offline prize draw simulation

Usage:
  drawsim [options]

Each run seeds a fresh in-memory database, draws every award once per
round using its draw count, then opens the next round.

Options:
`)
		flag.PrintDefaults()
	}
	flag.Parse()
	opts.MultiWin.Enabled = !*nomulti

	if err := opts.validate(); err != nil {
		log.Fatal(err)
	}

	results := make([]*runResult, 0, opts.Runs)
	for i := 0; i < opts.Runs; i++ {
		res, err := simulate(context.Background(), opts, opts.Seed+int64(i))
		if err != nil {
			log.Fatalf("run with seed %d: %v", opts.Seed+int64(i), err)
		}
		results = append(results, res)
	}
	report(os.Stdout, opts, results)
}

func (o options) validate() error {
	if o.Rounds < 1 || o.Runs < 1 {
		return errors.New("rounds and runs must be at least 1")
	}
	if o.Fixture == "" && (o.Participants < 1 || o.Departments < 1) {
		return errors.New("participants and departments must be at least 1")
	}
	if err := o.MultiWin.Validate(); err != nil {
		return err
	}
	return o.Engine.Validate()
}

// fixture returns the roster for a run. Without a fixture file, awards
// scale with the participant count.
func (o options) fixture() (*seed.Fixture, error) {
	if o.Fixture != "" {
		return seed.Load(o.Fixture)
	}

	depts := make([]string, o.Departments)
	for i := range depts {
		depts[i] = fmt.Sprintf("Dept %c", 'A'+i%26)
		if i >= 26 {
			depts[i] += fmt.Sprint(i / 26)
		}
	}
	n := o.Participants
	return &seed.Fixture{
		Awards: []seed.Award{
			{Name: "Grand Prize", Level: 1, Count: max(1, n/100), DrawCount: 1},
			{Name: "First Prize", Level: 2, Count: max(1, n/25), DrawCount: max(1, n/150)},
			{Name: "Second Prize", Level: 3, Count: max(1, n/8), DrawCount: max(1, n/50)},
			{Name: "Third Prize", Level: 4, Count: max(1, n/4), DrawCount: max(1, n/25)},
		},
		Generate: &seed.Generate{
			Count:       n,
			Prefix:      "Guest",
			Departments: depts,
		},
	}, nil
}

// simulate runs one full event with a fixed seed
func simulate(ctx context.Context, o options, seedValue int64) (*runResult, error) {
	repo, err := repository.New(":memory:")
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	nop := logger.Nop()
	settings := services.NewConfigService(nop, repo)
	if err := settings.UpdateMultiWinConfig(ctx, o.MultiWin); err != nil {
		return nil, err
	}
	roster := services.NewRosterService(nop, repo)
	lottery := services.NewLotteryService(nop, repo, settings, o.Engine)
	lottery.SetRandomSource(draw.NewSeededSource(uint64(seedValue)))

	f, err := o.fixture()
	if err != nil {
		return nil, err
	}
	if _, err := seed.Apply(ctx, nop, roster, f); err != nil {
		return nil, err
	}

	res := &runResult{Seed: seedValue, ByLevel: make(map[int]int)}
	for round := 1; round <= o.Rounds; round++ {
		awards, err := roster.ListAwards(ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range awards {
			if a.RemainingCount == 0 {
				continue
			}
			count := min(max(a.DrawCount, 1), a.Count)
			result, err := lottery.Draw(ctx, a.ID, count)
			switch {
			case errors.Is(err, services.ErrNoEligibleParticipants), errors.Is(err, services.ErrAwardDepleted):
				res.Skipped++
				continue
			case err != nil:
				return nil, fmt.Errorf("round %d, award %q: %w", round, a.Name, err)
			}
			res.Draws++
			if result.WasPartial {
				res.Partial++
			}
			res.ByLevel[a.Level] += result.ActualCount
		}
		if round < o.Rounds {
			if _, err := lottery.AdvanceRound(ctx); err != nil {
				return nil, err
			}
		}
	}

	stats, err := lottery.WinDistribution(ctx)
	if err != nil {
		return nil, err
	}
	res.Distribution = stats.Distribution
	res.TargetTwo = stats.TargetTwo
	res.TargetThree = stats.TargetThree
	return res, nil
}

func report(w io.Writer, o options, results []*runResult) {
	fmt.Fprintf(w, "drawsim: %d run(s), %d round(s), multi-win %s (two %d%%, three %d%%, interval %d)\n\n",
		len(results), o.Rounds, onOff(o.MultiWin.Enabled),
		o.MultiWin.TwoWinPercentage, o.MultiWin.ThreeWinPercentage, o.MultiWin.MinEpochInterval)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "seed\tdraws\tpartial\tskipped\tparticipants\t0 wins\t1 win\t2 wins\t3 wins\ttarget 2\ttarget 3\t")
	var sum models.WinDistribution
	for _, r := range results {
		d := r.Distribution
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			r.Seed, r.Draws, r.Partial, r.Skipped, d.Total,
			d.ZeroWins, d.OneWin, d.TwoWins, d.ThreeWins, r.TargetTwo, r.TargetThree)
		sum.Total += d.Total
		sum.ZeroWins += d.ZeroWins
		sum.OneWin += d.OneWin
		sum.TwoWins += d.TwoWins
		sum.ThreeWins += d.ThreeWins
	}
	tw.Flush()

	fmt.Fprintf(w, "\nshare of participants: 0 wins %.1f%%, 1 win %.1f%%, 2 wins %.1f%%, 3 wins %.1f%%\n",
		100*sum.Share(0), 100*sum.Share(1), 100*sum.Share(2), 100*sum.Share(3))

	levels := make(map[int]int)
	for _, r := range results {
		for level, n := range r.ByLevel {
			levels[level] += n
		}
	}
	var parts []string
	for level := 1; len(parts) < len(levels); level++ {
		if n, ok := levels[level]; ok {
			parts = append(parts, fmt.Sprintf("L%d=%d", level, n))
		}
	}
	fmt.Fprintf(w, "prizes awarded by level: %s\n", strings.Join(parts, " "))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
