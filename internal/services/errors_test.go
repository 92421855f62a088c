package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/abrezinsky/prizedraw/internal/errors"
	"github.com/abrezinsky/prizedraw/internal/services"
)

func TestServiceError_Error(t *testing.T) {
	err := &services.ServiceError{Message: "test error message"}

	if err.Error() != "test error message" {
		t.Errorf("expected 'test error message', got %q", err.Error())
	}
	if apperrors.KindOf(err) != apperrors.ErrValidation {
		t.Errorf("expected validation kind, got %s", apperrors.KindOf(err))
	}
}

func TestDrawError_IsMatchesByCode(t *testing.T) {
	err := &services.DrawError{Code: services.CodeAwardDepleted, AwardID: 7, Message: "award 7 has no remaining inventory"}
	wrapped := fmt.Errorf("draw: %w", err)

	if !errors.Is(wrapped, services.ErrAwardDepleted) {
		t.Error("expected errors.Is to match ErrAwardDepleted")
	}
	if errors.Is(wrapped, services.ErrNoSuchAward) {
		t.Error("expected errors.Is not to match a different code")
	}

	var de *services.DrawError
	if !errors.As(wrapped, &de) || de.AwardID != 7 {
		t.Errorf("expected errors.As to recover award id, got %+v", de)
	}
}

func TestDrawError_Message(t *testing.T) {
	tests := []struct {
		name     string
		err      *services.DrawError
		contains string
	}{
		{"message", &services.DrawError{Code: services.CodeInvalidCount, Message: "count must be positive"}, "count must be positive"},
		{"code fallback", &services.DrawError{Code: services.CodeRoundNotOpen}, "ROUND_NOT_OPEN"},
		{"cause", &services.DrawError{Code: services.CodeAwardDepleted, Message: "depleted", Err: errors.New("conflict")}, "depleted: conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("expected %q in %q", tt.contains, tt.err.Error())
			}
		})
	}
}

func TestDrawError_Kind(t *testing.T) {
	tests := []struct {
		code services.DrawErrorCode
		kind apperrors.Kind
	}{
		{services.CodeNoSuchAward, apperrors.ErrNotFound},
		{services.CodeNoSuchWinner, apperrors.ErrNotFound},
		{services.CodeInvalidCount, apperrors.ErrValidation},
		{services.CodeAwardDepleted, apperrors.ErrConflict},
		{services.CodeNoEligibleParticipants, apperrors.ErrConflict},
		{services.CodeRoundNotOpen, apperrors.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := &services.DrawError{Code: tt.code}
			if got := apperrors.KindOf(err); got != tt.kind {
				t.Errorf("expected %s, got %s", tt.kind, got)
			}
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"ErrNameRequired", services.ErrNameRequired, "name"},
		{"ErrInvalidLevel", services.ErrInvalidLevel, "level"},
		{"ErrInvalidAwardCount", services.ErrInvalidAwardCount, "count"},
		{"ErrInvalidWeight", services.ErrInvalidWeight, "weight"},
		{"ErrBaseURLNotConfigured", services.ErrBaseURLNotConfigured, "base url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			if !strings.Contains(strings.ToLower(msg), tt.contains) {
				t.Errorf("expected error message to contain %q, got %q", tt.contains, msg)
			}
		})
	}
}
