package model

import (
	"time"
)

type Task struct {
	Id          int64     `gorm:"primaryKey;autoIncrement"`
	UserId      int64     `gorm:"not null;index"` // Owner; every query is scoped by it
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:varchar(1000)"`
	Completed   bool      `gorm:"default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
