package domain

type (
	Email    = string
	Password = string
	UserId   = string

	BoardId = string
	TaskId  = string

	// Millis is a unix timestamp in milliseconds, the unit the backend speaks.
	Millis = int64
)
