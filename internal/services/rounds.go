package services

import (
	"context"
	"errors"

	apperrors "github.com/abrezinsky/prizedraw/internal/errors"
	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/repository"
)

// AdvanceRound closes the current round by opening the next one.
// The current round must be open.
func (s *LotteryService) AdvanceRound(ctx context.Context) (*models.Epoch, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	cur, err := s.repo.CurrentEpoch(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to load current round")
	}
	if !cur.IsOpen() {
		return nil, roundNotOpen(cur.Number)
	}

	next, err := s.repo.AdvanceEpoch(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrEpochNotOpen) {
			return nil, roundNotOpen(cur.Number)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to advance round")
	}

	s.log.Info("Round advanced", "epoch", next.Number)
	s.broadcastRound(*next)
	return next, nil
}

// CloseRound stops the current round from accepting draws
func (s *LotteryService) CloseRound(ctx context.Context) (*models.Epoch, error) {
	return s.setRoundStatus(ctx, models.EpochClosed)
}

// OpenRound lets a closed round accept draws again
func (s *LotteryService) OpenRound(ctx context.Context) (*models.Epoch, error) {
	return s.setRoundStatus(ctx, models.EpochOpen)
}

func (s *LotteryService) setRoundStatus(ctx context.Context, status models.EpochStatus) (*models.Epoch, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	epoch, err := s.repo.SetEpochStatus(ctx, status)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrInternal, "failed to set round status to %s", status)
	}

	s.log.Info("Round status changed", "epoch", epoch.Number, "status", epoch.Status)
	s.broadcastRound(*epoch)
	return epoch, nil
}

// Reset deletes every winner, restores all inventory and returns to round 1.
// Calling it again has no further effect.
func (s *LotteryService) Reset(ctx context.Context) error {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	if err := s.repo.ResetLottery(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternal, "failed to reset lottery")
	}

	s.log.Warn("Lottery reset")
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLotteryReset()
	}
	return nil
}

func (s *LotteryService) broadcastRound(epoch models.Epoch) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastRoundChanged(epoch)
	}
}
