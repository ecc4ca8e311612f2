package service

import (
	"context"
	"time"

	"taskchat-be/internal/dto"
	"taskchat-be/internal/entity"
	"taskchat-be/internal/pkg/logger"
	"taskchat-be/internal/repository/specification"
	"taskchat-be/internal/repository/unitofwork"
	"taskchat-be/pkg/events"
	pktNats "taskchat-be/pkg/nats"
)

type ITaskService interface {
	Create(ctx context.Context, userId int64, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetAll(ctx context.Context, userId int64) ([]*dto.TaskResponse, error)
	GetOne(ctx context.Context, userId int64, id int64) (*dto.TaskResponse, error)
	Update(ctx context.Context, userId int64, id int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Toggle(ctx context.Context, userId int64, id int64) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userId int64, id int64) error
}

type taskService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewTaskService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ITaskService {
	return &taskService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *taskService) Create(ctx context.Context, userId int64, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task := &entity.Task{
		UserId:      userId,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := uow.TaskRepository().Create(ctx, task); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TaskCreated, userId, task.Id)
	return taskToResponse(task), nil
}

func (s *taskService) GetAll(ctx context.Context, userId int64) ([]*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tasks, err := uow.TaskRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, taskToResponse(task))
	}
	return result, nil
}

func (s *taskService) GetOne(ctx context.Context, userId int64, id int64) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return taskToResponse(task), nil
}

func (s *taskService) Update(ctx context.Context, userId int64, id int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	task.UpdatedAt = time.Now()

	if err := uow.TaskRepository().Update(ctx, task); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TaskUpdated, userId, task.Id)
	return taskToResponse(task), nil
}

// Toggle flips the completion state. Completing an already completed task
// reopens it, matching the assistant's complete_task tool.
func (s *taskService) Toggle(ctx context.Context, userId int64, id int64) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = time.Now()
	if err := uow.TaskRepository().Update(ctx, task); err != nil {
		return nil, err
	}

	eventType := events.TaskCompleted
	if !task.Completed {
		eventType = events.TaskReopened
	}
	s.publishEvent(ctx, eventType, userId, task.Id)
	return taskToResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, userId int64, id int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	if err := uow.TaskRepository().Delete(ctx, task.Id); err != nil {
		return err
	}

	s.publishEvent(ctx, events.TaskDeleted, userId, task.Id)
	return nil
}

// findOwned resolves a task inside the user's ownership scope; a task owned
// by someone else reads as not found.
func (s *taskService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id int64) (*entity.Task, error) {
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// publishEvent emits a domain event. Events are auxiliary; failures are
// logged and never fail the request.
func (s *taskService) publishEvent(ctx context.Context, eventType string, userId, taskId int64) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewTaskEvent(eventType, userId, taskId)); err != nil {
		s.log.Warn("task", "Failed to publish task event", map[string]interface{}{
			"event_type": eventType,
			"task_id":    taskId,
			"error":      err.Error(),
		})
	}
}

func taskToResponse(task *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		Id:          task.Id,
		UserId:      task.UserId,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
