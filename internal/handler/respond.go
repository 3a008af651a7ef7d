package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rental-service/internal/apperr"
	"rental-service/prometheus"
)

// fail translates a service error into the HTTP response in one place.
// Handlers pass every non-nil service error through here.
func fail(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrPasswordMismatch),
		errors.Is(err, apperr.ErrWrongPassword),
		errors.Is(err, apperr.ErrInvalidGuests),
		errors.Is(err, apperr.ErrPastDate):
		prometheus.RecordError("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	case errors.Is(err, apperr.ErrInvalidCode),
		errors.Is(err, apperr.ErrExpiredCode):
		prometheus.RecordError("invalid_code")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	case errors.Is(err, apperr.ErrInvalidCredentials):
		prometheus.RecordError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})

	case errors.Is(err, apperr.ErrNotActivated),
		errors.Is(err, apperr.ErrForbidden):
		prometheus.RecordError("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})

	case errors.Is(err, apperr.ErrNotFound):
		prometheus.RecordError("not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})

	case errors.Is(err, apperr.ErrUnavailable),
		errors.Is(err, apperr.ErrSelfBooking),
		errors.Is(err, apperr.ErrDuplicatePending),
		errors.Is(err, apperr.ErrConflict):
		prometheus.RecordError("conflict")
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	log.Error("Unhandled service error", zap.Error(err))
	prometheus.RecordError("internal")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// badRequest reports a malformed request body or parameter.
func badRequest(c echo.Context, log *zap.Logger, msg string, err error) error {
	log.Error(msg, zap.Error(err))
	prometheus.RecordError("invalid_request")
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
}
