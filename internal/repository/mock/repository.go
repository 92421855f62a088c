package mock

import (
	"context"
	"sync"

	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CandidatePoolError = errors.New("database error")
//	svc := services.NewLotteryService(log, mockRepo, cfg, draw.DefaultParams())
//	_, err := svc.Draw(ctx, awardID, 1)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	mu sync.Mutex

	// ===== Participant Errors =====
	ListParticipantsError  error
	CreateParticipantError error
	CountParticipantsError error

	// ===== Award Errors =====
	ListAwardsError     error
	GetAwardError       error
	CreateAwardError    error
	TotalRemainingError error

	// ===== Lottery Errors =====
	CurrentEpochError    error
	AdvanceEpochError    error
	SetEpochStatusError  error
	CandidatePoolError   error
	CommitDrawError      error
	RevokeWinnerError    error
	ResetLotteryError    error
	GetWinnerError       error
	ListWinnersError     error
	WinDistributionError error

	// CommitDrawConflicts makes the next N CommitDraw calls fail with
	// repository.ErrInventoryConflict before reaching the real store.
	CommitDrawConflicts int
	// CommitDrawCalls counts CommitDraw invocations
	CommitDrawCalls int

	// ===== Settings Errors =====
	GetSettingError  error
	SetSettingError  error
	SetSettingsError error

	PingError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Participant Methods =====

func (m *Repository) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	if m.ListParticipantsError != nil {
		return nil, m.ListParticipantsError
	}
	return m.FullRepository.ListParticipants(ctx)
}

func (m *Repository) CreateParticipant(ctx context.Context, p models.Participant) (int64, error) {
	if m.CreateParticipantError != nil {
		return 0, m.CreateParticipantError
	}
	return m.FullRepository.CreateParticipant(ctx, p)
}

func (m *Repository) CountParticipants(ctx context.Context) (int, error) {
	if m.CountParticipantsError != nil {
		return 0, m.CountParticipantsError
	}
	return m.FullRepository.CountParticipants(ctx)
}

// ===== Award Methods =====

func (m *Repository) ListAwards(ctx context.Context) ([]models.Award, error) {
	if m.ListAwardsError != nil {
		return nil, m.ListAwardsError
	}
	return m.FullRepository.ListAwards(ctx)
}

func (m *Repository) GetAward(ctx context.Context, id int) (*models.Award, error) {
	if m.GetAwardError != nil {
		return nil, m.GetAwardError
	}
	return m.FullRepository.GetAward(ctx, id)
}

func (m *Repository) CreateAward(ctx context.Context, a models.Award) (int64, error) {
	if m.CreateAwardError != nil {
		return 0, m.CreateAwardError
	}
	return m.FullRepository.CreateAward(ctx, a)
}

func (m *Repository) TotalRemaining(ctx context.Context) (int, error) {
	if m.TotalRemainingError != nil {
		return 0, m.TotalRemainingError
	}
	return m.FullRepository.TotalRemaining(ctx)
}

// ===== Lottery Methods =====

func (m *Repository) CurrentEpoch(ctx context.Context) (*models.Epoch, error) {
	if m.CurrentEpochError != nil {
		return nil, m.CurrentEpochError
	}
	return m.FullRepository.CurrentEpoch(ctx)
}

func (m *Repository) AdvanceEpoch(ctx context.Context) (*models.Epoch, error) {
	if m.AdvanceEpochError != nil {
		return nil, m.AdvanceEpochError
	}
	return m.FullRepository.AdvanceEpoch(ctx)
}

func (m *Repository) SetEpochStatus(ctx context.Context, status models.EpochStatus) (*models.Epoch, error) {
	if m.SetEpochStatusError != nil {
		return nil, m.SetEpochStatusError
	}
	return m.FullRepository.SetEpochStatus(ctx, status)
}

func (m *Repository) CandidatePool(ctx context.Context, awardID, epoch int) ([]models.PoolEntry, error) {
	if m.CandidatePoolError != nil {
		return nil, m.CandidatePoolError
	}
	return m.FullRepository.CandidatePool(ctx, awardID, epoch)
}

func (m *Repository) CommitDraw(ctx context.Context, awardID, epoch int, participantIDs []int) ([]models.Winner, error) {
	m.mu.Lock()
	m.CommitDrawCalls++
	if m.CommitDrawConflicts > 0 {
		m.CommitDrawConflicts--
		m.mu.Unlock()
		return nil, repository.ErrInventoryConflict
	}
	m.mu.Unlock()

	if m.CommitDrawError != nil {
		return nil, m.CommitDrawError
	}
	return m.FullRepository.CommitDraw(ctx, awardID, epoch, participantIDs)
}

func (m *Repository) RevokeWinner(ctx context.Context, winnerID int) (*models.Winner, error) {
	if m.RevokeWinnerError != nil {
		return nil, m.RevokeWinnerError
	}
	return m.FullRepository.RevokeWinner(ctx, winnerID)
}

func (m *Repository) ResetLottery(ctx context.Context) error {
	if m.ResetLotteryError != nil {
		return m.ResetLotteryError
	}
	return m.FullRepository.ResetLottery(ctx)
}

func (m *Repository) GetWinner(ctx context.Context, id int) (*models.Winner, error) {
	if m.GetWinnerError != nil {
		return nil, m.GetWinnerError
	}
	return m.FullRepository.GetWinner(ctx, id)
}

func (m *Repository) ListWinners(ctx context.Context, awardID *int) ([]models.Winner, error) {
	if m.ListWinnersError != nil {
		return nil, m.ListWinnersError
	}
	return m.FullRepository.ListWinners(ctx, awardID)
}

func (m *Repository) WinDistribution(ctx context.Context) (models.WinDistribution, error) {
	if m.WinDistributionError != nil {
		return models.WinDistribution{}, m.WinDistributionError
	}
	return m.FullRepository.WinDistribution(ctx)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) SetSettings(ctx context.Context, values map[string]string) error {
	if m.SetSettingsError != nil {
		return m.SetSettingsError
	}
	return m.FullRepository.SetSettings(ctx, values)
}

func (m *Repository) Ping(ctx context.Context) error {
	if m.PingError != nil {
		return m.PingError
	}
	return m.FullRepository.Ping(ctx)
}
