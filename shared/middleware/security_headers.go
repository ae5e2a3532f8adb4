package middleware

import (
	"net/http"
)

// JSONAPICSP is the policy for endpoints that only ever return JSON.
const JSONAPICSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeadersWithCSP adds security headers with custom Content-Security-Policy
// csp: Content-Security-Policy value (if empty, no CSP header is set)
func SecurityHeadersWithCSP(csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			// credential and board data must not be cached by the browser
			headers.Set("Cache-Control", "no-store")
			if csp != "" {
				headers.Set("Content-Security-Policy", csp)
			}
			next.ServeHTTP(w, r)
		})
	}
}
