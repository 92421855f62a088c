package repository

import (
	"context"

	"github.com/abrezinsky/prizedraw/internal/models"
)

// ParticipantRepository defines participant data operations
type ParticipantRepository interface {
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	GetParticipant(ctx context.Context, id int) (*models.Participant, error)
	CreateParticipant(ctx context.Context, p models.Participant) (int64, error)
	CountParticipants(ctx context.Context) (int, error)
}

// AwardRepository defines award data operations
type AwardRepository interface {
	ListAwards(ctx context.Context) ([]models.Award, error)
	GetAward(ctx context.Context, id int) (*models.Award, error)
	CreateAward(ctx context.Context, a models.Award) (int64, error)
	CountAwards(ctx context.Context) (int, error)
	TotalRemaining(ctx context.Context) (int, error)
}

// LotteryRepository defines the draw state: epochs, winners and the
// transactional operations that change them.
type LotteryRepository interface {
	CurrentEpoch(ctx context.Context) (*models.Epoch, error)
	AdvanceEpoch(ctx context.Context) (*models.Epoch, error)
	SetEpochStatus(ctx context.Context, status models.EpochStatus) (*models.Epoch, error)
	CandidatePool(ctx context.Context, awardID, epoch int) ([]models.PoolEntry, error)
	CommitDraw(ctx context.Context, awardID, epoch int, participantIDs []int) ([]models.Winner, error)
	RevokeWinner(ctx context.Context, winnerID int) (*models.Winner, error)
	ResetLottery(ctx context.Context) error
	GetWinner(ctx context.Context, id int) (*models.Winner, error)
	ListWinners(ctx context.Context, awardID *int) ([]models.Winner, error)
	CountWinners(ctx context.Context) (int, error)
	WinDistribution(ctx context.Context) (models.WinDistribution, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	SetSettings(ctx context.Context, values map[string]string) error
}

// HealthChecker reports whether the store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	ParticipantRepository
	AwardRepository
	LotteryRepository
	SettingsRepository
	HealthChecker
}

// Ensure Repository implements FullRepository
var _ FullRepository = (*Repository)(nil)
