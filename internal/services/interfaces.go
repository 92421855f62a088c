package services

import (
	"context"

	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/repository"
)

// LotteryServicer defines the interface for draw operations
type LotteryServicer interface {
	Draw(ctx context.Context, awardID, count int) (*DrawResult, error)
	AdvanceRound(ctx context.Context) (*models.Epoch, error)
	CloseRound(ctx context.Context) (*models.Epoch, error)
	OpenRound(ctx context.Context) (*models.Epoch, error)
	Reset(ctx context.Context) error
	RevokeWin(ctx context.Context, winnerID int) error
	Status(ctx context.Context) (*models.LotteryStatus, error)
	ListWinners(ctx context.Context, awardID *int) ([]models.Winner, error)
	WinDistribution(ctx context.Context) (*MultiWinStats, error)
	ClaimQR(ctx context.Context, winnerID int) ([]byte, error)
	Ping(ctx context.Context) error
	SetBroadcaster(b Broadcaster)
}

// RosterServicer defines the interface for participant and award registration
type RosterServicer interface {
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	CreateParticipant(ctx context.Context, p models.Participant) (int64, error)
	ListAwards(ctx context.Context) ([]models.Award, error)
	CreateAward(ctx context.Context, a models.Award) (int64, error)
}

// ConfigServicer defines the interface for runtime settings
type ConfigServicer interface {
	GetMultiWinConfig(ctx context.Context) (models.MultiWinConfig, error)
	UpdateMultiWinConfig(ctx context.Context, cfg models.MultiWinConfig) error
	GetSystemConfig(ctx context.Context) (models.SystemConfig, error)
	UpdateSystemConfig(ctx context.Context, cfg models.SystemConfig) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
}

// Broadcaster defines the interface for pushing draw events to display clients
type Broadcaster interface {
	BroadcastDrawResult(result *DrawResult, displayDelayMS int)
	BroadcastRoundChanged(epoch models.Epoch)
	BroadcastLotteryReset()
	BroadcastWinnerRevoked(winner models.Winner)
}

// LotteryServiceRepository is the storage the lottery service depends on
type LotteryServiceRepository interface {
	repository.ParticipantRepository
	repository.AwardRepository
	repository.LotteryRepository
	repository.HealthChecker
}

// Ensure concrete types implement interfaces
var (
	_ LotteryServicer = (*LotteryService)(nil)
	_ RosterServicer  = (*RosterService)(nil)
	_ ConfigServicer  = (*ConfigService)(nil)
)
