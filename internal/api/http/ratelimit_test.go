package http_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	httpapi "github.com/supportdesk/ticket-api/internal/api/http"
)

func TestRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	rl := httpapi.NewRateLimiter(1, 2)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "third request within the burst window must be rejected")

	assert.True(t, rl.Allow("10.0.0.2"), "limits are tracked per IP")
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := httpapi.NewRateLimiter(1, 1)

	rl.Stop()
	rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"), "a stopped limiter still limits, only cleanup ends")
}
