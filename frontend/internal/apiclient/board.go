package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/logger"
)

// === Board Methods ===

// ListBoards never fails: any problem degrades to an empty list so callers do
// not have to tell "could not load" from "nothing exists".
func (c *APIClient) ListBoards(ctx context.Context) ([]domain.Board, error) {
	resp, err := c.do(ctx, "list_boards", http.MethodGet, "/boards", nil, "", true)
	if err != nil {
		logger.Component("apiclient").Warn("listing boards failed, showing none", "error", err)
		return []domain.Board{}, nil
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		logger.Component("apiclient").Warn("listing boards rejected, showing none", "status", resp.StatusCode)
		return []domain.Board{}, nil
	}
	list := decodeList(resp.Body)
	boards := make([]domain.Board, 0, len(list))
	for _, item := range list {
		boards = append(boards, normalizeBoard(item))
	}
	return boards, nil
}

func (c *APIClient) CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	body := api.CreateBoardRequest{Title: data.Title, Description: data.Description, Theme: data.Theme}
	resp, err := c.doJSON(ctx, "create_board", http.MethodPost, "/boards", body, true)
	if err != nil {
		return domain.Board{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.Board{}, failure(resp, "Failed to create board")
	}
	raw, err := decodeRecord(resp.Body)
	if err != nil {
		return domain.Board{}, err
	}
	return normalizeBoard(raw), nil
}

// DeleteBoard asks the backend to remove a board; the backend cascades to its tasks.
func (c *APIClient) DeleteBoard(ctx context.Context, id domain.BoardId) error {
	resp, err := c.do(ctx, "delete_board", http.MethodDelete, "/boards/"+url.PathEscape(id), nil, "", true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return failure(resp, "Failed to delete board")
	}
	return nil
}
