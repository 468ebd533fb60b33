package utils

import (
	"errors"
	"net/http"

	"hostel-backend/apperrors"

	"github.com/gin-gonic/gin"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// RespondError maps the engine's typed failures onto HTTP statuses in
// one place so controllers stay thin.
func RespondError(c *gin.Context, err error) {
	var ae *apperrors.AppError
	if !errors.As(err, &ae) {
		JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch ae.Kind {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict, apperrors.KindCapacityExceeded:
		status = http.StatusConflict
	case apperrors.KindInvalidState:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"success": false, "error": ae.Message, "kind": ae.Kind})
}
