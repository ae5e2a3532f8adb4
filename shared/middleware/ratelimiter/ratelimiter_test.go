package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newLimiter(rate, capacity float64) (*Limiter, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(rate, capacity, time.Hour)
	l.now = c.now
	return l, c
}

func TestAllow(t *testing.T) {
	t.Run("burst up to capacity", func(t *testing.T) {
		l, _ := newLimiter(1, 3)
		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
	})

	t.Run("refills over time", func(t *testing.T) {
		l, c := newLimiter(0.5, 1)
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))

		c.advance(time.Second)
		assert.False(t, l.Allow("a"))

		c.advance(time.Second)
		assert.True(t, l.Allow("a"))
	})

	t.Run("never exceeds capacity", func(t *testing.T) {
		l, c := newLimiter(10, 2)
		c.advance(time.Minute)
		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _ := newLimiter(1, 1)
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
		assert.True(t, l.Allow("b"))
	})
}

func TestIdleBucketsAreDropped(t *testing.T) {
	l, c := newLimiter(1, 1)
	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	c.advance(2 * time.Hour)
	l.Allow("c")
	assert.Equal(t, 1, l.Len())
}
