package handlers

import (
	"errors"
	"net/http"

	"tenanthub-backend/core-service/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service sentinel errors to HTTP status
// codes. Anything unrecognized is an internal failure and gets a
// generic message, the original error stays server-side.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidRole):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrAccessDenied):
		ctx.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"message": err.Error(),
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "An unexpected error occurred",
		})
	}
}
