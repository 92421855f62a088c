package services

import (
	"fmt"

	apperrors "github.com/abrezinsky/prizedraw/internal/errors"
)

// Service errors
var (
	ErrNameRequired         = &ServiceError{Message: "name is required"}
	ErrInvalidLevel         = &ServiceError{Message: "level must be at least 1"}
	ErrInvalidAwardCount    = &ServiceError{Message: "count must not be negative"}
	ErrInvalidWeight        = &ServiceError{Message: "weight must not be negative"}
	ErrBaseURLNotConfigured = &ServiceError{Message: "base URL is not configured"}
)

// ServiceError represents a service-level validation error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// ErrorKind classifies service errors as validation failures
func (e *ServiceError) ErrorKind() apperrors.Kind {
	return apperrors.ErrValidation
}

// DrawErrorCode is the stable identifier of a draw failure
type DrawErrorCode string

const (
	CodeNoSuchAward            DrawErrorCode = "NO_SUCH_AWARD"
	CodeAwardDepleted          DrawErrorCode = "AWARD_DEPLETED"
	CodeInvalidCount           DrawErrorCode = "INVALID_COUNT"
	CodeNoEligibleParticipants DrawErrorCode = "NO_ELIGIBLE_PARTICIPANTS"
	CodeRoundNotOpen           DrawErrorCode = "ROUND_NOT_OPEN"
	CodeNoSuchWinner           DrawErrorCode = "NO_SUCH_WINNER"
)

// Sentinels for errors.Is; matching is by code only.
var (
	ErrNoSuchAward            = &DrawError{Code: CodeNoSuchAward}
	ErrAwardDepleted          = &DrawError{Code: CodeAwardDepleted}
	ErrInvalidCount           = &DrawError{Code: CodeInvalidCount}
	ErrNoEligibleParticipants = &DrawError{Code: CodeNoEligibleParticipants}
	ErrRoundNotOpen           = &DrawError{Code: CodeRoundNotOpen}
	ErrNoSuchWinner           = &DrawError{Code: CodeNoSuchWinner}
)

// DrawError is returned by lottery operations that fail for a reason the
// caller can act on.
type DrawError struct {
	Code      DrawErrorCode
	Message   string
	AwardID   int
	WinnerID  int
	Requested int
	Available int
	Err       error
}

func (e *DrawError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DrawError) Unwrap() error {
	return e.Err
}

// Is matches any DrawError with the same code
func (e *DrawError) Is(target error) bool {
	t, ok := target.(*DrawError)
	return ok && t.Code == e.Code
}

// ErrorKind maps the code onto the application error kinds
func (e *DrawError) ErrorKind() apperrors.Kind {
	switch e.Code {
	case CodeNoSuchAward, CodeNoSuchWinner:
		return apperrors.ErrNotFound
	case CodeInvalidCount:
		return apperrors.ErrValidation
	default:
		return apperrors.ErrConflict
	}
}

func noSuchAward(awardID int) *DrawError {
	return &DrawError{Code: CodeNoSuchAward, AwardID: awardID,
		Message: fmt.Sprintf("award %d does not exist", awardID)}
}

func awardDepleted(awardID, requested int, err error) *DrawError {
	return &DrawError{Code: CodeAwardDepleted, AwardID: awardID, Requested: requested, Err: err,
		Message: fmt.Sprintf("award %d has no remaining inventory", awardID)}
}

func invalidCount(awardID, requested, available int, reason string) *DrawError {
	return &DrawError{Code: CodeInvalidCount, AwardID: awardID, Requested: requested, Available: available,
		Message: reason}
}

func noEligible(awardID, requested int) *DrawError {
	return &DrawError{Code: CodeNoEligibleParticipants, AwardID: awardID, Requested: requested,
		Message: fmt.Sprintf("no eligible participants for award %d", awardID)}
}

func roundNotOpen(epoch int) *DrawError {
	return &DrawError{Code: CodeRoundNotOpen,
		Message: fmt.Sprintf("round %d is not open", epoch)}
}

func noSuchWinner(winnerID int) *DrawError {
	return &DrawError{Code: CodeNoSuchWinner, WinnerID: winnerID,
		Message: fmt.Sprintf("winner %d does not exist", winnerID)}
}
