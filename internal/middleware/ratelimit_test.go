package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("u:1"), "request %d inside the limit", i+1)
	}
	assert.False(t, rl.Allow("u:1"))

	// Other callers have their own window.
	assert.True(t, rl.Allow("u:2"))
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	assert.True(t, rl.Allow("u:1"))
	assert.False(t, rl.Allow("u:1"))
	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.Allow("u:1"))
}
