package jwt

import (
	"testing"
	"time"

	"github.com/folio-desk/folio/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	j := New("testJwtKey", time.Minute)

	token, err := j.NewToken("a@x.com")
	require.NoError(t, err)

	sub, err := j.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sub)
}

func TestTokenRejected(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	j := New("testJwtKey", time.Minute)
	j.now = func() time.Time { return issued }
	token, err := j.NewToken("a@x.com")
	require.NoError(t, err)

	t.Run("Expired", func(t *testing.T) {
		later := New("testJwtKey", time.Minute)
		later.now = func() time.Time { return issued.Add(2 * time.Minute) }

		_, err := later.Subject(token)

		require.Error(t, err)
		assert.True(t, errors.IsUnauthorized(err))
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := New("invalidSecret", time.Minute)
		other.now = j.now

		_, err := other.Subject(token)

		assert.True(t, errors.IsUnauthorized(err))
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := j.Subject("not-a-token")

		assert.True(t, errors.IsUnauthorized(err))
	})
}
