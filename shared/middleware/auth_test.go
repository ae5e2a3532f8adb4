package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct {
	VerifyFunc func(token string) (domain.User, error)
}

func (m *mockVerifier) Verify(token string) (domain.User, error) {
	return m.VerifyFunc(token)
}

type mockIdentity struct {
	user domain.User
	ok   bool
}

func (m *mockIdentity) Identity() (domain.User, bool) { return m.user, m.ok }

func echoUser(t *testing.T, seen **domain.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestNeedBearer(t *testing.T) {
	verifier := &mockVerifier{VerifyFunc: func(token string) (domain.User, error) {
		if token == "good" {
			return domain.User{Id: "1", Email: "a@x.com"}, nil
		}
		return domain.User{}, errors.New("bad signature")
	}}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"rejected token", "Bearer bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *domain.User
			h := NeedBearer(verifier)(echoUser(t, &seen))
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "1", seen.Id)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestNeedIdentity(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		var seen *domain.User
		h := NeedIdentity(&mockIdentity{user: domain.User{Id: "demo-user"}, ok: true})(echoUser(t, &seen))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/boards", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "demo-user", seen.Id)
	})

	t.Run("signed out", func(t *testing.T) {
		var seen *domain.User
		h := NeedIdentity(&mockIdentity{})(echoUser(t, &seen))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/boards", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, seen)
	})
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeadersWithCSP(JSONAPICSP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Equal(t, JSONAPICSP, rr.Header().Get("Content-Security-Policy"))
}
