package handler

import (
	"net/http"

	"github.com/folio-desk/folio/frontend/internal/authflow"
	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/utils"
)

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	state := h.desk.State()
	utils.WriteJSON(w, http.StatusOK, api.SessionResponse{
		User:               state.Identity,
		Mode:               string(state.Mode),
		Auth:               authState(state.Auth),
		ShowRegisterBanner: state.ShowRegisterBanner,
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var body api.AuthSubmitRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	snap, err := h.desk.Auth.Submit(r.Context(), authflow.Form{
		Email:       body.Email,
		Password:    body.Password,
		Name:        body.Name,
		Code:        body.Code,
		NewPassword: body.NewPassword,
	})
	h.writeAuthResult(w, snap, err)
}

func (h *Handler) Switch(w http.ResponseWriter, r *http.Request) {
	var body api.AuthSwitchRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	target := authflow.Mode(body.Mode)
	if !target.Valid() || target == authflow.Authenticated {
		utils.WriteErrorAndStatusCode(w, errors.InvalidInput("Unknown auth mode"))
		return
	}
	snap, err := h.desk.Auth.Switch(target)
	h.writeAuthResult(w, snap, err)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	snap, err := h.desk.Auth.Back()
	h.writeAuthResult(w, snap, err)
}

func (h *Handler) Demo(w http.ResponseWriter, r *http.Request) {
	h.desk.LoginAsDemo()
	h.writeAuthResult(w, h.desk.Auth.Snapshot(), nil)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.desk.Logout()
	h.writeAuthResult(w, h.desk.Auth.Snapshot(), nil)
}

func (h *Handler) DismissBanner(w http.ResponseWriter, r *http.Request) {
	h.desk.DismissBanner()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RegisterFromBanner(w http.ResponseWriter, r *http.Request) {
	err := h.desk.OpenRegisterFromBanner()
	h.writeAuthResult(w, h.desk.Auth.Snapshot(), err)
}
