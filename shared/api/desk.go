package api

import "github.com/folio-desk/folio/shared/domain"

// Desk surface: session and auth forms

type AuthSubmitRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type AuthSwitchRequest struct {
	Mode string `json:"mode" validate:"required"`
}

type AuthStateResponse struct {
	Mode       string `json:"mode"`
	Email      string `json:"email,omitempty"`
	Error      string `json:"error,omitempty"`
	Success    bool   `json:"success"`
	Submitting bool   `json:"submitting"`
}

type SessionResponse struct {
	User               *domain.User      `json:"user"`
	Mode               string            `json:"mode"`
	Auth               AuthStateResponse `json:"auth"`
	ShowRegisterBanner bool              `json:"showRegisterBanner"`
}

// AuthResultResponse answers a form action. Detail carries the failure, if any.
type AuthResultResponse struct {
	Detail string            `json:"detail,omitempty"`
	Auth   AuthStateResponse `json:"auth"`
	User   *domain.User      `json:"user,omitempty"`
}
