package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/business-card-api/pkg/apperror"
	"github.com/oksasatya/business-card-api/pkg/response"
)

// ErrorTranslator renders the last error attached with c.Error as a single
// {"message"} body. Handlers that already wrote a response are left alone.
func ErrorTranslator(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.StatusOf(err)
		if status >= http.StatusInternalServerError && logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString(CtxRequestIDKey),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"status":     status,
			}).Error("request failed")
		}
		response.Error(c, status, apperror.MessageOf(err))
	}
}

// Recovery turns a panic into a 500 with the usual error body.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(CtxRequestIDKey),
				"path":       c.Request.URL.Path,
				"panic":      fmt.Sprint(recovered),
			}).Error("panic recovered")
		}
		response.Error(c, http.StatusInternalServerError, "internal server error")
	})
}
