package model

import (
	"time"
)

type User struct {
	Id                    int64     `gorm:"primaryKey;autoIncrement"`
	Email                 string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username              string    `gorm:"type:varchar(100);not null"`
	PasswordHash          string    `gorm:"type:varchar(255);not null"`
	AiDailyUsage          int       `gorm:"default:0"`
	AiDailyUsageLastReset time.Time
	CreatedAt             time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
