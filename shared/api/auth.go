package api

import "github.com/folio-desk/folio/shared/domain"

// Backend contract: request bodies

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required"`
	Name  string `json:"name,omitempty"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Otp         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// Backend contract: responses

type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type,omitempty"`
	User        domain.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse mirrors the backend error body. Detail is either a string or
// a list of validation items, so it is kept raw.
type ErrorResponse struct {
	Detail any `json:"detail"`
}
