package memory

import (
	"context"
	"time"

	"taskchat-be/internal/entity"
	"taskchat-be/internal/repository/specification"
)

// --- User ---

type userRepo struct {
	store *Store
}

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.Id = r.store.nextUserId
	r.store.nextUserId++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *userRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if q.byID != nil && u.Id != *q.byID {
			continue
		}
		if q.byEmail != nil && u.Email != *q.byEmail {
			continue
		}
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *userRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.users)), nil
}

func (r *userRepo) IncrementAiUsage(ctx context.Context, userId int64, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userId]
	if !ok {
		return nil
	}
	ay, am, ad := u.AiDailyUsageLastReset.Date()
	ny, nm, nd := now.Date()
	if ay == ny && am == nm && ad == nd {
		u.AiDailyUsage++
	} else {
		u.AiDailyUsage = 1
	}
	u.AiDailyUsageLastReset = now
	return nil
}

// --- Task ---

type taskRepo struct {
	store *Store
}

func (r *taskRepo) Create(ctx context.Context, task *entity.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	task.Id = r.store.nextTaskId
	r.store.nextTaskId++
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	cp := *task
	r.store.tasks[task.Id] = &cp
	return nil
}

func (r *taskRepo) Update(ctx context.Context, task *entity.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *task
	r.store.tasks[task.Id] = &cp
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.tasks, id)
	return nil
}

func (r *taskRepo) matches(t *entity.Task, q query) bool {
	if q.byID != nil && t.Id != *q.byID {
		return false
	}
	if q.ownedBy != nil && t.UserId != *q.ownedBy {
		return false
	}
	if q.byCompleted != nil && t.Completed != *q.byCompleted {
		return false
	}
	return true
}

func (r *taskRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, t := range r.store.tasks {
		if r.matches(t, q) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *taskRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Task
	for _, t := range r.store.tasks {
		if r.matches(t, q) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sortByCreatedAt(out,
		func(t *entity.Task) time.Time { return t.CreatedAt },
		func(t *entity.Task) int64 { return t.Id },
		q.orderDesc)
	return out, nil
}

func (r *taskRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

// --- Conversation ---

type conversationRepo struct {
	store *Store
}

func (r *conversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	conversation.Id = r.store.nextConversationId
	r.store.nextConversationId++
	now := time.Now()
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = now
	}
	if conversation.UpdatedAt.IsZero() {
		conversation.UpdatedAt = now
	}
	cp := *conversation
	r.store.conversations[conversation.Id] = &cp
	return nil
}

func (r *conversationRepo) Touch(ctx context.Context, id int64, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.conversations[id]; ok {
		c.UpdatedAt = at
	}
	return nil
}

func (r *conversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.conversations {
		if q.byID != nil && c.Id != *q.byID {
			continue
		}
		if q.ownedBy != nil && c.UserId != *q.ownedBy {
			continue
		}
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *conversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Conversation
	for _, c := range r.store.conversations {
		if q.ownedBy != nil && c.UserId != *q.ownedBy {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sortByCreatedAt(out,
		func(c *entity.Conversation) time.Time { return c.CreatedAt },
		func(c *entity.Conversation) int64 { return c.Id },
		q.orderDesc)
	return out, nil
}

// --- Message ---

type messageRepo struct {
	store *Store
}

func (r *messageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	message.Id = r.store.nextMessageId
	r.store.nextMessageId++
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	cp := *message
	r.store.messages[message.Id] = &cp
	return nil
}

func (r *messageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	q := parseSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Message
	for _, msg := range r.store.messages {
		if q.byConversationID != nil && msg.ConversationId != *q.byConversationID {
			continue
		}
		cp := *msg
		out = append(out, &cp)
	}
	sortByCreatedAt(out,
		func(msg *entity.Message) time.Time { return msg.CreatedAt },
		func(msg *entity.Message) int64 { return msg.Id },
		q.orderDesc)
	return out, nil
}

func (r *messageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
