package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
)

// Login exchanges email and password for an access grant via the form-encoded token endpoint.
func (c *APIClient) Login(ctx context.Context, email, password string) (domain.AccessGrant, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := c.do(ctx, "login", http.MethodPost, "/token", strings.NewReader(form.Encode()), formContentType, false)
	if err != nil {
		return domain.AccessGrant{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.AccessGrant{}, failure(resp, "Login failed. Check your credentials.")
	}
	return decodeGrant(resp)
}

// RegisterRequest starts registration; the backend mails a verification code.
func (c *APIClient) RegisterRequest(ctx context.Context, name, email, password string) error {
	body := api.RegisterRequest{Email: email, Name: name, Password: password}
	resp, err := c.doJSON(ctx, "register_request", http.MethodPost, "/auth/register-request", body, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return failure(resp, "Failed to send verification code")
	}
	return nil
}

// RegisterVerify finishes registration and signs the new account in.
func (c *APIClient) RegisterVerify(ctx context.Context, email, otp string) (domain.AccessGrant, error) {
	body := api.RegisterVerifyRequest{Email: email, Otp: otp}
	resp, err := c.doJSON(ctx, "register_verify", http.MethodPost, "/auth/register-verify", body, false)
	if err != nil {
		return domain.AccessGrant{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.AccessGrant{}, failure(resp, "Invalid or expired code")
	}
	return decodeGrant(resp)
}

// RequestOtp asks for a login code. Failures are always reported generically.
func (c *APIClient) RequestOtp(ctx context.Context, email string) error {
	resp, err := c.doJSON(ctx, "request_otp", http.MethodPost, "/auth/request-otp", api.EmailRequest{Email: email}, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return genericFailure(resp, "Failed to send code. Please try again.")
	}
	return nil
}

// VerifyOtp signs in with a login code. name is only used by the backend when
// the email has no account yet.
func (c *APIClient) VerifyOtp(ctx context.Context, email, otp, name string) (domain.AccessGrant, error) {
	body := api.VerifyOtpRequest{Email: email, Otp: otp, Name: name}
	resp, err := c.doJSON(ctx, "verify_otp", http.MethodPost, "/auth/verify-otp", body, false)
	if err != nil {
		return domain.AccessGrant{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.AccessGrant{}, failure(resp, "Invalid code")
	}
	return decodeGrant(resp)
}

func (c *APIClient) RequestResetPassword(ctx context.Context, email string) error {
	resp, err := c.doJSON(ctx, "request_reset", http.MethodPost, "/auth/request-reset-password", api.EmailRequest{Email: email}, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return failure(resp, "Failed to send reset code")
	}
	return nil
}

func (c *APIClient) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := api.ResetPasswordRequest{Email: email, Otp: otp, NewPassword: newPassword}
	resp, err := c.doJSON(ctx, "reset_password", http.MethodPost, "/auth/reset-password", body, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return failure(resp, "Failed to reset password")
	}
	return nil
}

// CurrentUser looks up the identity behind the held credential.
func (c *APIClient) CurrentUser(ctx context.Context) (domain.User, error) {
	resp, err := c.do(ctx, "current_user", http.MethodGet, "/users/me", nil, "", true)
	if err != nil {
		return domain.User{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.User{}, failure(resp, "Could not validate credentials")
	}
	raw, err := decodeRecord(resp.Body)
	if err != nil {
		return domain.User{}, err
	}
	return normalizeUser(raw), nil
}

func decodeGrant(resp *http.Response) (domain.AccessGrant, error) {
	raw, err := decodeRecord(resp.Body)
	if err != nil {
		return domain.AccessGrant{}, err
	}
	token, _ := raw["access_token"].(string)
	if token == "" {
		return domain.AccessGrant{}, errors.Transport("Unexpected response from backend", nil)
	}
	return domain.AccessGrant{Token: token, User: normalizeUser(raw["user"])}, nil
}
