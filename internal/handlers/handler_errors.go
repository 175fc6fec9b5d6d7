package handlers

import (
	"errors"
	"net/http"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusForError maps service-layer sentinel errors to HTTP status codes. Anything
// unmapped is a 500 and the raw error is not exposed to the client.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnbalanced),
		errors.Is(err, apperrors.ErrEmptyEntry),
		errors.Is(err, apperrors.ErrInactiveAccount),
		errors.Is(err, apperrors.ErrInvalidQuery):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrDiscrepancy):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondError writes the mapped error response.
func respondError(c *gin.Context, err error) {
	status, msg := statusForError(err)
	c.JSON(status, gin.H{"error": msg})
}
