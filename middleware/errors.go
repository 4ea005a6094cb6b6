package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"forkful/apperr"
	"forkful/response"
)

// Errors is the terminal error handler. Handlers push errors onto the gin
// chain via c.Error; this middleware shapes the last one into the envelope
// and logs it.
func Errors(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		ae := apperr.From(err)

		entry := logger.WithFields(logrus.Fields{
			"requestId": c.GetString(CtxRequestID),
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    ae.Status,
			"code":      ae.Code,
		})
		if ae.Status >= http.StatusInternalServerError {
			entry.WithError(err).Error("request failed")
		} else {
			entry.Info(ae.Message)
		}

		response.Fail(c, ae)
	}
}
