package middleware

import (
	"regexp"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID reuses a well-formed incoming X-Request-ID or generates a UUID. The
// id is echoed in the response header, the JSON envelope and security events.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !requestIDPattern.MatchString(id) {
			id = uuid.NewString()
		}

		c.Set(string(domain.KeyRequestID), id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(security.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}
