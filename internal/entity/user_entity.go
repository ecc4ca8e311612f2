package entity

import "time"

type User struct {
	Id           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time

	// Daily AI usage accounting, reset per calendar day
	AiDailyUsage          int
	AiDailyUsageLastReset time.Time
}
