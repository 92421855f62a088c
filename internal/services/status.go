package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	apperrors "github.com/abrezinsky/prizedraw/internal/errors"
	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/repository"
)

// MultiWinStats compares the realized win distribution with the targets
type MultiWinStats struct {
	Config       models.MultiWinConfig  `json:"config"`
	Distribution models.WinDistribution `json:"distribution"`
	TargetTwo    int                    `json:"target_two"`
	TargetThree  int                    `json:"target_three"`
	ShareTwo     float64                `json:"share_two"`
	ShareThree   float64                `json:"share_three"`
}

// Ping checks that the store is reachable
func (s *LotteryService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Status returns a snapshot of the draw for display clients
func (s *LotteryService) Status(ctx context.Context) (*models.LotteryStatus, error) {
	epoch, err := s.repo.CurrentEpoch(ctx)
	if err != nil {
		return nil, err
	}
	awards, err := s.repo.ListAwards(ctx)
	if err != nil {
		return nil, err
	}
	winners, err := s.repo.CountWinners(ctx)
	if err != nil {
		return nil, err
	}
	dist, err := s.repo.WinDistribution(ctx)
	if err != nil {
		return nil, err
	}

	var available int
	switch maxWins := s.maxWins(); {
	case maxWins <= 1:
		available = dist.ZeroWins
	case maxWins == 2:
		available = dist.ZeroWins + dist.OneWin
	default:
		available = dist.Total - dist.ThreeWins
	}

	if awards == nil {
		awards = []models.Award{}
	}
	return &models.LotteryStatus{
		CurrentEpoch:          epoch.Number,
		EpochStatus:           epoch.Status,
		Awards:                awards,
		AvailableParticipants: available,
		TotalParticipants:     dist.Total,
		TotalWinners:          winners,
		Distribution:          dist,
	}, nil
}

func (s *LotteryService) maxWins() int {
	s.engineMu.RLock()
	defer s.engineMu.RUnlock()
	return s.engine.Params().MaxWins
}

// ListWinners returns winners newest first, optionally for one award
func (s *LotteryService) ListWinners(ctx context.Context, awardID *int) ([]models.Winner, error) {
	winners, err := s.repo.ListWinners(ctx, awardID)
	if err != nil {
		return nil, err
	}
	if winners == nil {
		winners = []models.Winner{}
	}
	return winners, nil
}

// WinDistribution reports the realized win-count distribution against the
// configured repeat-winner targets.
func (s *LotteryService) WinDistribution(ctx context.Context) (*MultiWinStats, error) {
	cfg, err := s.config.GetMultiWinConfig(ctx)
	if err != nil {
		return nil, err
	}
	dist, err := s.repo.WinDistribution(ctx)
	if err != nil {
		return nil, err
	}
	return &MultiWinStats{
		Config:       cfg,
		Distribution: dist,
		TargetTwo:    dist.Total * cfg.TwoWinPercentage / 100,
		TargetThree:  dist.Total * cfg.ThreeWinPercentage / 100,
		ShareTwo:     dist.Share(2),
		ShareThree:   dist.Share(3),
	}, nil
}

// ClaimQR renders a PNG QR code linking to the winner's claim page
func (s *LotteryService) ClaimQR(ctx context.Context, winnerID int) ([]byte, error) {
	winner, err := s.repo.GetWinner(ctx, winnerID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, noSuchWinner(winnerID)
		}
		return nil, err
	}

	baseURL, err := s.config.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, ErrBaseURLNotConfigured
	}

	claimURL := fmt.Sprintf("%s/claim/%s", strings.TrimSuffix(baseURL, "/"), winner.ClaimCode)
	png, err := qrcode.Encode(claimURL, qrcode.Medium, 256)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to render claim QR code")
	}
	return png, nil
}
