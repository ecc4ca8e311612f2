package unitofwork

import (
	"context"

	"taskchat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	TaskRepository() contract.TaskRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
}
