package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurst(t *testing.T) {
	l := New(Config{
		RequestsPerMinute: 60,
		BurstSize:         5,
		CleanupInterval:   time.Minute,
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("client-a"), "request %d should be allowed", i)
	}
	assert.False(t, l.Allow("client-a"), "request past burst should be denied")
}

func TestAllowIndependentClients(t *testing.T) {
	l := New(Config{
		RequestsPerMinute: 60,
		BurstSize:         1,
		CleanupInterval:   time.Minute,
	})
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-b"), "other clients have their own bucket")
}

func TestAllowRefills(t *testing.T) {
	l := New(Config{
		RequestsPerMinute: 6000, // 100 tokens/sec so the test stays fast
		BurstSize:         1,
		CleanupInterval:   time.Minute,
	})
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, l.Allow("client-a"), "bucket should refill over time")
}
