package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/logger"
)

// StatusFor maps an error to the HTTP status returned to the caller.
func StatusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeMalformedPayload:
		return http.StatusBadRequest
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeNetwork, apperrors.CodeParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler writes the last error attached by a handler as {"error": msg}.
func ErrorHandler(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)

		message := err.Error()
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Message != "" {
			message = appErr.Message
		}

		if status >= http.StatusInternalServerError {
			logger.LogError(log, "middleware", "ErrorHandler", c.FullPath(), gin.H{"status": status}, err)
			// Internal causes stay in the logs.
			if apperrors.CodeOf(err) == "" {
				message = "internal server error"
			}
		} else {
			log.WithFields(logrus.Fields{
				"path":   c.FullPath(),
				"status": status,
				"code":   apperrors.CodeOf(err),
			}).Warn(err.Error())
		}

		c.JSON(status, gin.H{"error": message})
	}
}
