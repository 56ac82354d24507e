package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"sitterbid-backend/services"
	"sitterbid-backend/utils"
)

// isRetryableTxFailure reports whether Postgres aborted the transaction
// as a deadlock or serialization victim. The whole transaction rolled
// back, so the caller can safely retry against fresh state.
func isRetryableTxFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// respondServiceError maps engine errors onto HTTP statuses. Validation
// failures are client-correctable (400), state conflicts prompt a retry
// with fresh data (409), anything else is a store problem (500).
func respondServiceError(c *gin.Context, err error) {
	var below *services.BelowMinimumError
	if errors.As(err, &below) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   below.Error(),
			"minimum": below.Minimum,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrMissingField),
		errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrBadDiscount),
		errors.Is(err, services.ErrNoAvailability),
		errors.Is(err, services.ErrAllSlotsConfirmed):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrCodeNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrAlreadyResolved),
		errors.Is(err, services.ErrMinimumRaised),
		errors.Is(err, services.ErrWindowConfirmed),
		errors.Is(err, services.ErrCodeExists):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case isRetryableTxFailure(err):
		utils.RespondWithError(c, http.StatusConflict, services.ErrAlreadyResolved.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
