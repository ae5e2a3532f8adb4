package handler

import (
	"net/http"

	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/utils"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request) {
	boards := h.desk.Workspace.Boards(r.Context())
	utils.WriteJSON(w, http.StatusOK, api.BoardListResponse{Boards: boards})
}

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var body api.CreateBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	board, err := h.desk.Workspace.CreateBoard(r.Context(), body.Title)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, board)
}

// DeleteBoard answers before the backend does.
func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	h.desk.Workspace.DeleteBoard(r.Context(), chi.URLParam(r, "board"))
	utils.WriteJSON(w, http.StatusOK, api.StatusResponse{Status: "deleted"})
}
