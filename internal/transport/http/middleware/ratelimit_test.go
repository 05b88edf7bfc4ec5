package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPLimiterEvictsIdleBuckets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newIPLimiter(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.True(t, l.allow(ip))
	}
	assert.Equal(t, 3, l.size())

	// 一个 IP 在窗口内保持活跃，其余空闲
	now = now.Add(40 * time.Second)
	assert.True(t, l.allow("10.0.0.1"))

	now = now.Add(30 * time.Second)
	assert.True(t, l.allow("10.0.0.4"))
	assert.Equal(t, 2, l.size())
}

func TestIPLimiterKeepsLimitWhileActive(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newIPLimiter(0, 1, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	now = now.Add(30 * time.Second)
	assert.False(t, l.allow("10.0.0.1"))
}
