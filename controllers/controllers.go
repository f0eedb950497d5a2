package controllers

import (
	"context"
	"errors"
	"net/http"

	"loneton_server/helpers"
	"loneton_server/services"

	"go.uber.org/zap"
)

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Welcome to the Loneton API."})
}

// writeServiceError maps service sentinels to status codes. Anything
// unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrMatchNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotParticipant):
		helpers.WriteJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrMatchRequestPending),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrQuestionnaireCompleted):
		helpers.WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidAnswers), errors.Is(err, services.ErrInvalidProfile):
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		logger.Error("❌ "+op+" failed", zap.Error(err))
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to "+op)
	}
}
