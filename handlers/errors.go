package handlers

import (
	"errors"
	"net/http"
	"time"

	"franchise-api/dtos"
	"franchise-api/models"
	"franchise-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func errorBody(status int, errText, message string) dtos.ErrorResponse {
	return dtos.ErrorResponse{
		Status:    status,
		Error:     errText,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// respondError is the single place where service errors become HTTP responses.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody(http.StatusNotFound, "Not Found", err.Error()))
	case errors.Is(err, models.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Bad Request", err.Error()))
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, errorBody(http.StatusInternalServerError,
			"Internal Server Error", "An unexpected error occurred: "+err.Error()))
	}
}

func respondBindError(c *gin.Context, err error) {
	body := errorBody(http.StatusBadRequest, "Validation Failed", utils.SanitizeValidationError(err))
	body.ValidationErrors = utils.FieldErrors(err)
	c.JSON(http.StatusBadRequest, body)
}
