package devapi

import (
	stderrors "errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/utils"
	"github.com/go-playground/validator/v10"
)

// Records are served with a document-store style "_id".

type userRecord struct {
	Id    domain.UserId `json:"_id"`
	Email domain.Email  `json:"email"`
	Name  string        `json:"name"`
}

type boardRecord struct {
	Id          domain.BoardId `json:"_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	UserId      domain.UserId  `json:"userId"`
	Theme       domain.Theme   `json:"theme"`
	CreatedAt   domain.Millis  `json:"createdAt"`
}

type taskRecord struct {
	Id          domain.TaskId       `json:"_id"`
	BoardId     domain.BoardId      `json:"boardId"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	CreatedAt   domain.Millis       `json:"createdAt"`
	DueDate     *domain.Millis      `json:"dueDate"`
	Tags        []string            `json:"tags"`
	Rotation    float64             `json:"rotation"`
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        userRecord `json:"user"`
}

func toUserRecord(u domain.User) userRecord {
	return userRecord{Id: u.Id, Email: u.Email, Name: u.Name}
}

func toBoardRecord(b domain.Board) boardRecord {
	return boardRecord{Id: b.Id, Title: b.Title, Description: b.Description, UserId: b.OwnerId, Theme: b.Theme, CreatedAt: b.CreatedAt}
}

func toTaskRecord(t domain.Task) taskRecord {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return taskRecord{
		Id:          t.Id,
		BoardId:     t.BoardId,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		DueDate:     t.DueDate,
		Tags:        tags,
		Rotation:    t.Rotation,
	}
}

// validationItem is one entry of a 422 detail list.
type validationItem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody decodes and validates a JSON body. On failure the response has
// already been written and false is returned.
func decodeBody(w http.ResponseWriter, r io.ReadCloser, body any) bool {
	if err := utils.Decode(r, body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return false
	}
	err := validate.Struct(body)
	if err == nil {
		return true
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		utils.WriteErrorAndStatusCode(w, err)
		return false
	}
	items := make([]validationItem, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		items = append(items, validationItem{
			Loc:  []string{"body", fe.Field()},
			Msg:  validationMessage(fe),
			Type: fe.Tag(),
		})
	}
	utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": items})
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + ": field required"
	case "email":
		return fe.Field() + ": value is not a valid email address"
	}
	return fe.Field() + ": invalid value"
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{Message: detail, StatusCode: status})
}

func writeJSON(w http.ResponseWriter, body any) {
	utils.WriteJSON(w, http.StatusOK, body)
}

func normalizeEmail(email string) domain.Email {
	return strings.ToLower(strings.TrimSpace(email))
}
