package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"taskchat-be/internal/constant"
	"taskchat-be/internal/dto"
	"taskchat-be/internal/entity"
	"taskchat-be/internal/pkg/logger"
	"taskchat-be/internal/repository/memory"
	"taskchat-be/internal/repository/specification"
	"taskchat-be/internal/repository/unitofwork"
	"taskchat-be/pkg/agent/history"
	"taskchat-be/pkg/agent/toolctx"
	"taskchat-be/pkg/agent/tools"
	"taskchat-be/pkg/llm"

	"github.com/google/uuid"
)

type IChatService interface {
	Chat(ctx context.Context, userId int64, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetConversations(ctx context.Context, userId int64) ([]*dto.ConversationResponse, error)
	GetMessages(ctx context.Context, userId int64, conversationId int64) ([]*dto.MessageResponse, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	provider         llm.CompletionProvider
	registry         *tools.Registry
	turnGuard        *memory.TurnGuard
	publisherService IPublisherService
	log              logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.CompletionProvider,
	registry *tools.Registry,
	turnGuard *memory.TurnGuard,
	publisherService IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		provider:         provider,
		registry:         registry,
		turnGuard:        turnGuard,
		publisherService: publisherService,
		log:              log,
	}
}

// Chat runs one full conversation turn: resolve the conversation, persist
// the user message, call the model with the tool registry attached, execute
// whatever tool calls come back, and persist a single assistant message
// carrying the reply and the tool-call records.
func (s *chatService) Chat(ctx context.Context, userId int64, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	turnId := uuid.NewString()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.resolveConversation(ctx, uow, userId, req.ConversationId)
	if err != nil {
		return nil, err
	}

	// One turn at a time per conversation. Concurrent turns would interleave
	// their user/assistant rows and corrupt the transcript ordering.
	unlock := s.turnGuard.Lock(conversation.Id)
	defer unlock()

	userMessage := &entity.Message{
		ConversationId: conversation.Id,
		Role:           constant.MessageRoleUser,
		Content:        req.Message,
		CreatedAt:      time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	assembler := history.NewAssembler(uow.MessageRepository())
	priorHistory, err := assembler.Assemble(ctx, conversation.Id, userMessage.Id)
	if err != nil {
		return nil, err
	}

	rc := toolctx.New(uow, userId)
	ctx = toolctx.Inject(ctx, rc)

	completionReq := &llm.CompletionRequest{
		System:      constant.SystemPrompt(time.Now()),
		History:     priorHistory,
		Tools:       s.registry.Definitions(),
		UserMessage: req.Message,
		Executor:    s.registry,
	}

	completion, err := s.complete(ctx, turnId, completionReq)
	if err != nil {
		return nil, err
	}

	responseText := completion.Text
	records := completion.Executed

	// Explicit providers hand the tool calls back instead of running them.
	if len(completion.Pending) > 0 {
		executed := make([]llm.ExecutedToolCall, 0, len(completion.Pending))
		for _, call := range completion.Pending {
			output := s.registry.Execute(ctx, call.Name, call.Args)
			executed = append(executed, llm.ExecutedToolCall{Call: call, Output: output})
			records = append(records, entity.ToolCallRecord{
				ToolName: call.Name,
				Inputs:   call.Args,
				Output:   *output,
			})
		}

		responseText, err = s.provider.CompleteAfterTools(ctx, completionReq, executed)
		if err != nil {
			return nil, err
		}
	}

	assistantMessage := &entity.Message{
		ConversationId: conversation.Id,
		Role:           constant.MessageRoleAssistant,
		Content:        responseText,
		ToolCalls:      records,
		CreatedAt:      time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	if err := uow.ConversationRepository().Touch(ctx, conversation.Id, time.Now()); err != nil {
		return nil, err
	}

	s.publishTurnCompleted(ctx, userId, conversation.Id, len(records))

	s.log.Info("chat", "Turn completed", map[string]interface{}{
		"turn_id":         turnId,
		"conversation_id": conversation.Id,
		"tool_calls":      len(records),
	})

	return &dto.ChatResponse{
		ConversationId: conversation.Id,
		Response:       responseText,
		ToolCalls:      recordsToInfo(records),
	}, nil
}

// complete calls the provider, retrying exactly once with empty history when
// the first attempt fails. A long transcript that trips the model should not
// sink the turn; the retry trades context for availability. Missing
// credentials are configuration, not transient trouble, and never retried.
func (s *chatService) complete(ctx context.Context, turnId string, req *llm.CompletionRequest) (*llm.Completion, error) {
	completion, err := s.provider.Complete(ctx, req)
	if err == nil {
		return completion, nil
	}
	if errors.Is(err, llm.ErrNoCredential) {
		return nil, err
	}

	s.log.Warn("chat", "Completion failed, retrying with empty history", map[string]interface{}{
		"turn_id": turnId,
		"error":   err.Error(),
	})

	retryReq := *req
	retryReq.History = nil
	return s.provider.Complete(ctx, &retryReq)
}

func (s *chatService) resolveConversation(ctx context.Context, uow unitofwork.UnitOfWork, userId int64, conversationId *int64) (*entity.Conversation, error) {
	if conversationId == nil {
		conversation := &entity.Conversation{
			UserId:    userId,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
			return nil, err
		}
		return conversation, nil
	}

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: *conversationId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	return conversation, nil
}

func (s *chatService) publishTurnCompleted(ctx context.Context, userId, conversationId int64, toolCallCount int) {
	payload, err := json.Marshal(dto.TurnCompletedMessage{
		UserId:         userId,
		ConversationId: conversationId,
		ToolCallCount:  toolCallCount,
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("chat", "Failed to publish turn event", map[string]interface{}{
			"conversation_id": conversationId,
			"error":           err.Error(),
		})
	}
}

func (s *chatService) GetConversations(ctx context.Context, userId int64) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		result = append(result, &dto.ConversationResponse{
			Id:        conversation.Id,
			CreatedAt: conversation.CreatedAt,
			UpdatedAt: conversation.UpdatedAt,
		})
	}
	return result, nil
}

func (s *chatService) GetMessages(ctx context.Context, userId int64, conversationId int64) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		result = append(result, &dto.MessageResponse{
			Id:        message.Id,
			Role:      message.Role,
			Content:   message.Content,
			ToolCalls: recordsToInfo(message.ToolCalls),
			CreatedAt: message.CreatedAt,
		})
	}
	return result, nil
}

func recordsToInfo(records []entity.ToolCallRecord) []dto.ToolCallInfo {
	if len(records) == 0 {
		return []dto.ToolCallInfo{}
	}
	info := make([]dto.ToolCallInfo, 0, len(records))
	for _, record := range records {
		info = append(info, dto.ToolCallInfo{
			ToolName: record.ToolName,
			Inputs:   record.Inputs,
			Output:   record.Output,
		})
	}
	return info
}
