package services

import (
	"context"
	"errors"
	"sync"

	"github.com/abrezinsky/prizedraw/internal/draw"
	apperrors "github.com/abrezinsky/prizedraw/internal/errors"
	"github.com/abrezinsky/prizedraw/internal/logger"
	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/repository"
)

// DrawResult is the outcome of one successful draw request
type DrawResult struct {
	Award       models.Award    `json:"award"` // remaining_count reflects this draw
	Epoch       int             `json:"epoch"`
	Requested   int             `json:"requested"`
	ActualCount int             `json:"actual_count"`
	WasPartial  bool            `json:"was_partial"`
	Winners     []models.Winner `json:"winners"`
}

// LotteryService runs draws, rounds, revokes and resets
type LotteryService struct {
	log         logger.Logger
	repo        LotteryServiceRepository
	config      ConfigServicer
	broadcaster Broadcaster

	// Draws and revokes hold the read side; round changes and reset hold
	// the write side.
	engineMu   sync.RWMutex
	engine     *draw.Engine
	awardLocks keyedMutex
}

// NewLotteryService creates a new LotteryService drawing from crypto/rand
func NewLotteryService(log logger.Logger, repo LotteryServiceRepository, config ConfigServicer, params draw.Params) *LotteryService {
	return &LotteryService{
		log:    log,
		repo:   repo,
		config: config,
		engine: draw.NewEngine(params, nil),
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *LotteryService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetRandomSource swaps the engine's random source, e.g. for a seeded simulation
func (s *LotteryService) SetRandomSource(rng draw.RandomSource) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	s.engine = draw.NewEngine(s.engine.Params(), rng)
}

// Draw selects up to count winners for awardID in the current round and
// commits them atomically. When count exceeds the remaining inventory the
// draw is capped and the result is marked partial.
func (s *LotteryService) Draw(ctx context.Context, awardID, count int) (*DrawResult, error) {
	if count <= 0 {
		return nil, invalidCount(awardID, count, 0, "count must be positive")
	}

	s.engineMu.RLock()
	defer s.engineMu.RUnlock()
	unlock := s.awardLocks.Lock(awardID)
	defer unlock()

	result, err := s.drawOnce(ctx, awardID, count)
	if isCommitConflict(err) {
		s.log.Warn("State changed during draw, retrying", "award_id", awardID, "error", err)
		result, err = s.drawOnce(ctx, awardID, count)
	}
	switch {
	case errors.Is(err, repository.ErrInventoryConflict):
		return nil, awardDepleted(awardID, count, err)
	case isCommitConflict(err):
		return nil, apperrors.Wrap(err, apperrors.ErrConflict, "draw conflicted with a concurrent change")
	case err != nil:
		return nil, err
	}

	s.log.Info("Draw committed",
		"award_id", awardID,
		"epoch", result.Epoch,
		"requested", result.Requested,
		"winners", result.ActualCount,
		"partial", result.WasPartial)

	if s.broadcaster != nil {
		delay := models.DefaultSystemConfig().WinnerDisplayDelayMS
		if sys, err := s.config.GetSystemConfig(ctx); err == nil {
			delay = sys.WinnerDisplayDelayMS
		}
		s.broadcaster.BroadcastDrawResult(result, delay)
	}
	return result, nil
}

// isCommitConflict reports whether a commit failed because the pool it was
// built from went stale.
func isCommitConflict(err error) bool {
	return errors.Is(err, repository.ErrInventoryConflict) ||
		errors.Is(err, repository.ErrDuplicateWin) ||
		errors.Is(err, repository.ErrWinCapReached)
}

// drawOnce reads the current state, selects winners and commits them.
// Commit conflicts are returned unwrapped so Draw can retry.
func (s *LotteryService) drawOnce(ctx context.Context, awardID, count int) (*DrawResult, error) {
	award, err := s.repo.GetAward(ctx, awardID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, noSuchAward(awardID)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to load award")
	}
	if count > award.Count {
		return nil, invalidCount(awardID, count, award.Count, "count exceeds the award's total inventory")
	}
	if award.RemainingCount == 0 {
		return nil, awardDepleted(awardID, count, nil)
	}

	epoch, err := s.repo.CurrentEpoch(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to load current round")
	}
	if !epoch.IsOpen() {
		return nil, roundNotOpen(epoch.Number)
	}

	cfg, err := s.config.GetMultiWinConfig(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to load multi-win config")
	}

	pool, err := s.repo.CandidatePool(ctx, awardID, epoch.Number)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to load candidate pool")
	}

	coverage, err := s.coverageActive(ctx, cfg, pool)
	if err != nil {
		return nil, err
	}

	n := min(count, award.RemainingCount)
	out := s.engine.Select(draw.Request{
		Pool:     pool,
		Award:    *award,
		Epoch:    epoch.Number,
		Count:    n,
		Config:   cfg,
		Coverage: coverage,
	})
	s.log.Debug("Draw pool shaped",
		"award_id", awardID,
		"pool", len(pool),
		"eligible", out.Eligible,
		"shaped", out.Shaped,
		"gap_two", out.Targets.GapTwo,
		"gap_three", out.Targets.GapThree,
		"coverage", coverage)

	if len(out.Picks) == 0 {
		return nil, noEligible(awardID, n)
	}

	ids := make([]int, len(out.Picks))
	for i, p := range out.Picks {
		ids[i] = p.ID
	}

	winners, err := s.repo.CommitDraw(ctx, awardID, epoch.Number, ids)
	if err != nil {
		switch {
		case isCommitConflict(err):
			return nil, err
		case errors.Is(err, repository.ErrEpochNotOpen):
			return nil, roundNotOpen(epoch.Number)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to commit draw")
	}

	award.RemainingCount -= len(winners)
	return &DrawResult{
		Award:       *award,
		Epoch:       epoch.Number,
		Requested:   count,
		ActualCount: len(winners),
		WasPartial:  len(winners) < count,
		Winners:     winners,
	}, nil
}

// coverageActive reports whether never-won candidates should be drawn first:
// coverage mode is on and the remaining inventory can reach all of them.
func (s *LotteryService) coverageActive(ctx context.Context, cfg models.MultiWinConfig, pool []models.PoolEntry) (bool, error) {
	if !cfg.CoverageMode {
		return false, nil
	}
	var neverWon int
	for _, e := range pool {
		if e.WinCount == 0 {
			neverWon++
		}
	}
	if neverWon == 0 {
		return false, nil
	}
	remaining, err := s.repo.TotalRemaining(ctx)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrInternal, "failed to load remaining inventory")
	}
	return remaining >= neverWon, nil
}
