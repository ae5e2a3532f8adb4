package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/logger"
	"github.com/folio-desk/folio/shared/utils"
)

// Key to store the user in the request context
type key int

const UserKey key = 0

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (domain.User, error)
}

// IdentitySource reports who is signed in to the desk, if anyone.
type IdentitySource interface {
	Identity() (domain.User, bool)
}

// NeedBearer requires a valid "Authorization: Bearer" header.
func NeedBearer(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || token == "" {
				utils.WriteErrorAndStatusCode(w, errors.Unauthorized("Not authenticated"))
				return
			}
			user, err := verifier.Verify(token)
			if err != nil {
				logger.Log.Debug("bearer token rejected", "error", err)
				utils.WriteErrorAndStatusCode(w, errors.Unauthorized("Could not validate credentials"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserKey, &user)))
		})
	}
}

// NeedIdentity requires that the desk has a current identity, demo or live.
func NeedIdentity(src IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := src.Identity()
			if !ok {
				utils.WriteErrorAndStatusCode(w, errors.Unauthorized("Please sign in"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserKey, &user)))
		})
	}
}

// GetUserFromContext retrieves the user placed by NeedBearer or NeedIdentity.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
