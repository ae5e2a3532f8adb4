package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/logger"
	"github.com/folio-desk/folio/shared/middleware/ratelimiter"
	"github.com/folio-desk/folio/shared/utils"
)

// RateLimit rejects requests whose key has no tokens left with 429.
func RateLimit(rl *ratelimiter.Limiter, getKey func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := getKey(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(key) {
				logger.Log.Debug("rate limit exceeded", "path", r.URL.Path, "key", key)
				utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{Message: "Too many requests, try again later", StatusCode: http.StatusTooManyRequests})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIP uses RemoteAddr only; forwarding headers are not trusted.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", errors.InvalidInput(fmt.Sprintf("invalid IP address: %s", ip))
	}
	return ip, nil
}

// GetEmailFromBody reads the email field of a JSON body and restores the
// body for the handler. The email is lowercased so case variants share a key.
func GetEmailFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.InvalidInput("failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var data struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", errors.InvalidInput("Body is invalid json")
	}
	email := strings.ToLower(strings.TrimSpace(data.Email))
	if email == "" {
		return "", errors.InvalidInput("email field is required")
	}
	return email, nil
}
