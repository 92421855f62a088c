package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/prizedraw/internal/logger"
	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/repository"
)

// DefaultParticipantWeight is used when a participant is registered without one
const DefaultParticipantWeight = 100

// RosterRepository is the storage the roster service depends on
type RosterRepository interface {
	repository.ParticipantRepository
	repository.AwardRepository
}

// RosterService registers the participants and awards that make up the draw
type RosterService struct {
	log  logger.Logger
	repo RosterRepository
}

// NewRosterService creates a new RosterService
func NewRosterService(log logger.Logger, repo RosterRepository) *RosterService {
	return &RosterService{log: log, repo: repo}
}

// ListParticipants returns every participant
func (s *RosterService) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	return s.repo.ListParticipants(ctx)
}

// CreateParticipant registers a participant with no win history
func (s *RosterService) CreateParticipant(ctx context.Context, p models.Participant) (int64, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Department = strings.TrimSpace(p.Department)
	if p.Name == "" {
		return 0, ErrNameRequired
	}
	if p.Weight < 0 {
		return 0, ErrInvalidWeight
	}
	if p.Weight == 0 {
		p.Weight = DefaultParticipantWeight
	}

	id, err := s.repo.CreateParticipant(ctx, p)
	if err != nil {
		return 0, err
	}
	s.log.Debug("Participant created", "participant_id", id, "department", p.Department)
	return id, nil
}

// ListAwards returns every award, most prestigious first
func (s *RosterService) ListAwards(ctx context.Context) ([]models.Award, error) {
	return s.repo.ListAwards(ctx)
}

// CreateAward registers an award with its full inventory remaining
func (s *RosterService) CreateAward(ctx context.Context, a models.Award) (int64, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return 0, ErrNameRequired
	}
	if a.Level < 1 {
		return 0, ErrInvalidLevel
	}
	if a.Count < 0 {
		return 0, ErrInvalidAwardCount
	}
	if a.DrawCount <= 0 {
		a.DrawCount = 1
	}

	id, err := s.repo.CreateAward(ctx, a)
	if err != nil {
		return 0, err
	}
	s.log.Info("Award created", "award_id", id, "level", a.Level, "count", a.Count)
	return id, nil
}
