package domain

type Theme string

const (
	ThemePlain Theme = "plain"
	ThemeGrid  Theme = "grid"
	ThemeLines Theme = "lines"
	ThemeDots  Theme = "dots"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemePlain, ThemeGrid, ThemeLines, ThemeDots:
		return true
	}
	return false
}

type Board struct {
	Id          BoardId `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	OwnerId     UserId  `json:"userId"`
	Theme       Theme   `json:"theme"`
	CreatedAt   Millis  `json:"createdAt"`
}

// BoardCreationData carries the fields a user supplies when creating a board.
type BoardCreationData struct {
	Title       string
	Description string
	Theme       Theme
}
