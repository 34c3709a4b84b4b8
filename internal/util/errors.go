package util

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"listingscraper/internal/models"
)

// SafeErrorResponse writes a JSON error body. The underlying error is always
// logged but only exposed to clients outside release mode.
func SafeErrorResponse(c *gin.Context, statusCode int, userMessage string, err error) {
	if err != nil {
		slog.Default().Error("request failed",
			"component", "http",
			"path", c.Request.URL.Path,
			"status", statusCode,
			"error", err)
	}

	response := models.ErrorResponse{Message: userMessage}
	if gin.Mode() != gin.ReleaseMode && err != nil {
		response.Error = err.Error()
	}

	c.AbortWithStatusJSON(statusCode, response)
}
