package contract

import (
	"context"
	"time"

	"taskchat-be/internal/entity"
	"taskchat-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// IncrementAiUsage bumps the daily usage counter, resetting it first when
	// the last reset happened before the current day.
	IncrementAiUsage(ctx context.Context, userId int64, now time.Time) error
}
