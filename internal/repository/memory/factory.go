// Package memory provides in-process storage: the per-conversation turn
// guard used by the chat service, and map-backed repositories that satisfy
// the repository contracts for tests without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskchat-be/internal/entity"
	"taskchat-be/internal/repository/contract"
	"taskchat-be/internal/repository/specification"
	"taskchat-be/internal/repository/unitofwork"
)

// Store holds all in-memory tables behind one mutex. All repositories
// returned by the factory share it, mirroring a single database.
type Store struct {
	mu sync.Mutex

	users         map[int64]*entity.User
	tasks         map[int64]*entity.Task
	conversations map[int64]*entity.Conversation
	messages      map[int64]*entity.Message

	nextUserId         int64
	nextTaskId         int64
	nextConversationId int64
	nextMessageId      int64
}

func NewStore() *Store {
	return &Store{
		users:              make(map[int64]*entity.User),
		tasks:              make(map[int64]*entity.Task),
		conversations:      make(map[int64]*entity.Conversation),
		messages:           make(map[int64]*entity.Message),
		nextUserId:         1,
		nextTaskId:         1,
		nextConversationId: 1,
		nextMessageId:      1,
	}
}

type Factory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &Factory{store: store}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &uow{store: f.store}
}

// uow is non-transactional: every repository call commits immediately,
// which matches the per-operation granularity the services rely on.
type uow struct {
	store *Store
}

func (u *uow) Begin(ctx context.Context) error { return nil }
func (u *uow) Commit() error                   { return nil }
func (u *uow) Rollback() error                 { return nil }

func (u *uow) UserRepository() contract.UserRepository {
	return &userRepo{store: u.store}
}

func (u *uow) TaskRepository() contract.TaskRepository {
	return &taskRepo{store: u.store}
}

func (u *uow) ConversationRepository() contract.ConversationRepository {
	return &conversationRepo{store: u.store}
}

func (u *uow) MessageRepository() contract.MessageRepository {
	return &messageRepo{store: u.store}
}

// query captures the subset of specifications the memory tables understand.
// Specifications are matched by concrete type, the same structs the GORM
// implementations consume.
type query struct {
	byID             *int64
	ownedBy          *int64
	byEmail          *string
	byCompleted      *bool
	byConversationID *int64
	orderField       string
	orderDesc        bool
}

func parseSpecs(specs []specification.Specification) query {
	var q query
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			q.byID = &id
		case specification.OwnedBy:
			id := v.UserID
			q.ownedBy = &id
		case specification.ByEmail:
			email := v.Email
			q.byEmail = &email
		case specification.ByCompleted:
			c := v.Completed
			q.byCompleted = &c
		case specification.ByConversationID:
			id := v.ConversationID
			q.byConversationID = &id
		case specification.OrderBy:
			q.orderField = v.Field
			q.orderDesc = v.Desc
		}
	}
	return q
}

func sortByCreatedAt[T any](items []T, createdAt func(T) time.Time, id func(T) int64, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := createdAt(items[i]), createdAt(items[j])
		if a.Equal(b) {
			// Ids are monotonically assigned, a stable tie-breaker.
			if desc {
				return id(items[i]) > id(items[j])
			}
			return id(items[i]) < id(items[j])
		}
		if desc {
			return a.After(b)
		}
		return a.Before(b)
	})
}
