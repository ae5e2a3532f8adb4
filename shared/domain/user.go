package domain

type User struct {
	Id    UserId `json:"id"`
	Email Email  `json:"email"`
	Name  string `json:"name"`
}

func (u User) IsZero() bool {
	return u.Id == "" && u.Email == ""
}
