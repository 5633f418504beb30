package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestID"
)

// Logger логирует каждый запрос. Каждому запросу присваивается request id: берется из заголовка
// X-Request-ID или генерируется, и возвращается клиенту в том же заголовке.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	entry := l.WithField("component", "http")
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := logrus.Fields{
			"requestID": requestID,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"size":      c.Writer.Size(),
			"duration":  time.Since(start).String(),
		}
		if userID, ok := c.Get(CurrentUserIDKey); ok {
			fields["userID"] = userID
		}

		reqEntry := entry.WithFields(fields)
		switch {
		case len(c.Errors) > 0:
			reqEntry.WithError(c.Errors.Last()).Error("request")
		case c.Writer.Status() >= 500: //nolint:mnd
			reqEntry.Error("request")
		default:
			reqEntry.Info("request")
		}
	}
}
