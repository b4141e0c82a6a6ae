package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationHeader is the header used to propagate a correlation ID to
// backends and reflect it back to the caller.
const CorrelationHeader = "X-Correlation-ID"

// Correlation ensures every request has a correlation ID in pipeline state,
// generating one if the caller did not supply it, and reflects it on the
// response.
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}

		state := StateFrom(c)
		state.CorrelationID = id

		c.Writer.Header().Set(CorrelationHeader, id)
		c.Next()
	}
}
