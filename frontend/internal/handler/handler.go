package handler

import (
	"net/http"

	"github.com/folio-desk/folio/frontend/internal/authflow"
	"github.com/folio-desk/folio/frontend/internal/desk"
	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/utils"
)

type Handler struct {
	desk *desk.Desk
}

func New(d *desk.Desk) *Handler {
	return &Handler{desk: d}
}

func authState(s authflow.Snapshot) api.AuthStateResponse {
	return api.AuthStateResponse{
		Mode:       string(s.Mode),
		Email:      s.Email,
		Error:      s.Error,
		Success:    s.Success,
		Submitting: s.Submitting,
	}
}

// writeAuthResult answers a form action with the form state, whether or not
// the action succeeded.
func (h *Handler) writeAuthResult(w http.ResponseWriter, snap authflow.Snapshot, err error) {
	resp := api.AuthResultResponse{Auth: authState(snap)}
	if user, ok := h.desk.Identity(); ok {
		resp.User = &user
	}
	if err != nil {
		resp.Detail = errors.Message(err, err.Error())
		utils.WriteJSON(w, errors.StatusOf(err), resp)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) taskView(t domain.Task) api.TaskView {
	return api.TaskView{Task: t, DescriptionHTML: h.desk.Markdown.Render(t.DescriptionText())}
}
