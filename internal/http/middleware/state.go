package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudsound/api-gateway/internal/auth"
)

const stateKey = "gateway.pipeline_state"

// State is the per-request side-channel carried through the pipeline:
// principal (if any), whether auth succeeded, and the correlation ID.
type State struct {
	Principal       auth.Principal
	IsAuthenticated bool
	CorrelationID   string
}

// StateFrom returns the State stashed in c, creating an empty one if the
// Correlation middleware has not run yet (should not happen in practice).
func StateFrom(c *gin.Context) *State {
	if v, ok := c.Get(stateKey); ok {
		if s, ok := v.(*State); ok {
			return s
		}
	}
	s := &State{}
	c.Set(stateKey, s)
	return s
}
