package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, code, message, field string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message, Field: field}})
}

// writeError maps a service error onto a status code and the error envelope.
func writeError(w http.ResponseWriter, err error) {
	var (
		capErr     *domain.CapExceededError
		dup        *domain.DuplicateActiveQuoteError
		validation *domain.ValidationError
		feedback   *domain.MissingFeedbackError
		locked     *domain.FieldLockedError
		noChange   *domain.NoChangeError
		invalid    *domain.InvalidTransitionError
		stale      *domain.StaleStateError
		forbidden  *domain.ForbiddenError
	)
	switch {
	case errors.As(err, &capErr):
		writeFailure(w, http.StatusConflict, "CAP_EXCEEDED", err.Error(), "")
	case errors.As(err, &dup):
		writeFailure(w, http.StatusConflict, "DUPLICATE_ACTIVE_QUOTE", err.Error(), "")
	case errors.As(err, &validation):
		writeFailure(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error(), validation.Field)
	case errors.As(err, &feedback):
		writeFailure(w, http.StatusUnprocessableEntity, "MISSING_FEEDBACK", err.Error(), "feedback")
	case errors.As(err, &locked):
		writeFailure(w, http.StatusUnprocessableEntity, "FIELD_LOCKED", err.Error(), locked.Field)
	case errors.As(err, &noChange):
		writeFailure(w, http.StatusUnprocessableEntity, "NO_CHANGE", err.Error(), "")
	case errors.As(err, &invalid):
		writeFailure(w, http.StatusConflict, "INVALID_TRANSITION", err.Error(), "")
	case errors.As(err, &stale):
		writeFailure(w, http.StatusConflict, "STALE_STATE", err.Error(), "")
	case errors.As(err, &forbidden):
		writeFailure(w, http.StatusForbidden, "FORBIDDEN", err.Error(), "")
	case errors.Is(err, domain.ErrQuoteNotFound), errors.Is(err, domain.ErrRentalNotFound), errors.Is(err, domain.ErrNotificationNotFound):
		writeFailure(w, http.StatusNotFound, "NOT_FOUND", err.Error(), "")
	default:
		logger.Error("Unhandled error", "error", err)
		writeFailure(w, http.StatusInternalServerError, "INTERNAL", "internal error", "")
	}
}
