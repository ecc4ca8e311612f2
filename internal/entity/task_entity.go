package entity

import "time"

type Task struct {
	Id          int64
	UserId      int64
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
