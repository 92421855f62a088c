package services

import (
	"context"

	apperrors "github.com/abrezinsky/prizedraw/internal/errors"
	"github.com/abrezinsky/prizedraw/internal/repository"
)

// RevokeWin deletes a winner record, returns the unit to the award's
// inventory and recomputes the participant's stats from the wins left.
func (s *LotteryService) RevokeWin(ctx context.Context, winnerID int) error {
	winner, err := s.repo.GetWinner(ctx, winnerID)
	if err != nil {
		if err == repository.ErrNotFound {
			return noSuchWinner(winnerID)
		}
		return apperrors.Wrap(err, apperrors.ErrInternal, "failed to load winner")
	}

	s.engineMu.RLock()
	defer s.engineMu.RUnlock()
	unlock := s.awardLocks.Lock(winner.AwardID)
	defer unlock()

	revoked, err := s.repo.RevokeWinner(ctx, winnerID)
	if err != nil {
		if err == repository.ErrNotFound {
			return noSuchWinner(winnerID)
		}
		return apperrors.Wrap(err, apperrors.ErrInternal, "failed to revoke winner")
	}

	s.log.Info("Win revoked",
		"winner_id", winnerID,
		"participant_id", revoked.ParticipantID,
		"award_id", revoked.AwardID,
		"epoch", revoked.Epoch)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastWinnerRevoked(*revoked)
	}
	return nil
}
