package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"sitterbid-backend/services"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondServiceError(c, err)
	return w
}

func TestRespondServiceError_StatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, respond(t, services.ErrMissingField).Code)
	assert.Equal(t, http.StatusNotFound, respond(t, services.ErrNotFound).Code)
	assert.Equal(t, http.StatusConflict, respond(t, services.ErrAlreadyResolved).Code)
	assert.Equal(t, http.StatusConflict, respond(t, services.ErrMinimumRaised).Code)
	assert.Equal(t, http.StatusInternalServerError, respond(t, errors.New("connection reset")).Code)
}

func TestRespondServiceError_BelowMinimumCarriesFloor(t *testing.T) {
	w := respond(t, &services.BelowMinimumError{Minimum: 15.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"minimum":15.5`)
}

func TestRespondServiceError_RetryableTxFailures(t *testing.T) {
	// deadlock and serialization victims rolled back whole; the client
	// retries instead of seeing a server fault
	for _, code := range []string{"40001", "40P01"} {
		pgErr := &pgconn.PgError{Code: code}
		assert.Equal(t, http.StatusConflict, respond(t, pgErr).Code, code)

		wrapped := fmt.Errorf("accept bid: %w", pgErr)
		assert.Equal(t, http.StatusConflict, respond(t, wrapped).Code, code)
	}

	// any other SQLSTATE stays a server fault
	assert.Equal(t, http.StatusInternalServerError,
		respond(t, &pgconn.PgError{Code: "23505"}).Code)
}
