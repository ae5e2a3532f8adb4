package api

import "github.com/folio-desk/folio/shared/domain"

type CreateBoardRequest struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Theme       domain.Theme `json:"theme"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
