package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// AddParticipants inserts n participants spread round-robin across
// departments and returns their ids.
func AddParticipants(t *testing.T, repo repository.ParticipantRepository, n int, departments ...string) []int {
	t.Helper()
	if len(departments) == 0 {
		departments = []string{"Engineering"}
	}

	ids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		id, err := repo.CreateParticipant(context.Background(), models.Participant{
			Name:       fmt.Sprintf("Participant %03d", i+1),
			Department: departments[i%len(departments)],
			EmployeeID: fmt.Sprintf("E%04d", i+1),
			Weight:     100,
		})
		if err != nil {
			t.Fatalf("failed to create participant: %v", err)
		}
		ids = append(ids, int(id))
	}
	return ids
}

// AddAward inserts an award with full inventory and returns its id
func AddAward(t *testing.T, repo repository.AwardRepository, name string, level, count int) int {
	t.Helper()
	id, err := repo.CreateAward(context.Background(), models.Award{
		Name:      name,
		Level:     level,
		Count:     count,
		DrawCount: count,
	})
	if err != nil {
		t.Fatalf("failed to create award: %v", err)
	}
	return int(id)
}
