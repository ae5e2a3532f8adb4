package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/folio-desk/folio/shared/middleware/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmailFromBody(t *testing.T) {
	t.Run("body is preserved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/request-otp", bytes.NewBufferString(`{"email":" Ann@Folio.Test ","name":"Ann"}`))

		email, err := GetEmailFromBody(req)
		require.NoError(t, err)
		assert.Equal(t, "ann@folio.test", email)

		rest, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"email":" Ann@Folio.Test ","name":"Ann"}`, string(rest))
	})

	t.Run("missing email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"Ann"}`))
		_, err := GetEmailFromBody(req)
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`email=a`))
		_, err := GetEmailFromBody(req)
		assert.Error(t, err)
	})
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")

	ip, err := GetIP(req)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)

	req.RemoteAddr = "garbage"
	_, err = GetIP(req)
	assert.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	limited := RateLimit(ratelimiter.New(0.001, 2, time.Hour), GetEmailFromBody)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), "email")
			w.WriteHeader(http.StatusOK)
		}))

	send := func(email string) int {
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":"`+email+`"}`)))
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("a@x.com"))
	assert.Equal(t, http.StatusOK, send("A@x.com"))
	assert.Equal(t, http.StatusTooManyRequests, send("a@x.com"))
	assert.Equal(t, http.StatusOK, send("b@x.com"))

	rr := httptest.NewRecorder()
	limited.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
