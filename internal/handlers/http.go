package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/prizedraw/internal/errors"
	"github.com/abrezinsky/prizedraw/internal/services"
)

// Error codes for standardized API error responses
const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// APIError represents an error with an HTTP status code and error code
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// BadRequest creates a 400 error with custom message
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message}
}

// Unauthorized creates a 401 error with custom message
func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: message}
}

// InternalError creates a 500 error that hides the original error
func InternalError(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondCreated writes a 201 Created JSON response
func respondCreated(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusCreated, data)
}

// respondSuccess writes a 200 OK with a message
func respondSuccess(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// respondError writes an error response, logging anything that maps to a 500
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = ToAPIError(err)
	}
	if apiErr.Status >= http.StatusInternalServerError && h.Log != nil {
		h.Log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondJSON(w, apiErr.Status, apiErr)
}

// decodeJSON decodes JSON from request body into the target
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if err == io.EOF {
			return BadRequest("Request body is empty")
		}
		return BadRequest("Invalid JSON: " + err.Error())
	}
	return nil
}

// parseIntParam extracts and parses an integer URL parameter
func parseIntParam(r *http.Request, name string) (int, error) {
	param := chi.URLParam(r, name)
	if param == "" {
		return 0, BadRequest("Missing " + name + " parameter")
	}
	id, err := strconv.Atoi(param)
	if err != nil {
		return 0, BadRequest("Invalid " + name + " parameter")
	}
	return id, nil
}

// parseOptionalIntQuery parses an integer query parameter, nil when absent
func parseOptionalIntQuery(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, BadRequest("Invalid " + name + " parameter")
	}
	return &v, nil
}

// ToAPIError converts service errors to appropriate API errors
func ToAPIError(err error) *APIError {
	// Draw failures carry their own stable code
	var drawErr *services.DrawError
	if stderrors.As(err, &drawErr) {
		apiErr := &APIError{
			Status:  statusForKind(drawErr.ErrorKind()),
			Code:    string(drawErr.Code),
			Message: drawErr.Message,
		}
		switch drawErr.Code {
		case services.CodeInvalidCount, services.CodeAwardDepleted, services.CodeNoEligibleParticipants:
			apiErr.Details = map[string]int{
				"requested": drawErr.Requested,
				"available": drawErr.Available,
			}
		}
		return apiErr
	}

	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		if appErr.Kind == errors.ErrInternal {
			return InternalError(err)
		}
		apiErr := &APIError{Status: statusForKind(appErr.Kind), Code: codeForKind(appErr.Kind), Message: appErr.Message}
		if appErr.Code != "" {
			apiErr.Code = appErr.Code
		}
		return apiErr
	}

	if svcErr, ok := err.(*services.ServiceError); ok {
		return &APIError{Status: http.StatusBadRequest, Code: ErrCodeValidation, Message: svcErr.Message}
	}

	return InternalError(err)
}

func statusForKind(kind errors.Kind) int {
	switch kind {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrValidation, errors.ErrInvalidInput:
		return http.StatusBadRequest
	case errors.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func codeForKind(kind errors.Kind) string {
	switch kind {
	case errors.ErrNotFound:
		return ErrCodeNotFound
	case errors.ErrValidation, errors.ErrInvalidInput:
		return ErrCodeValidation
	case errors.ErrConflict:
		return ErrCodeConflict
	default:
		return ErrCodeInternalServer
	}
}
