package history

import (
	"context"

	"taskchat-be/internal/constant"
	"taskchat-be/internal/repository/contract"
	"taskchat-be/internal/repository/specification"
	"taskchat-be/pkg/llm"
)

// Assembler turns a conversation's stored messages into provider history.
type Assembler struct {
	messageRepository contract.MessageRepository
}

func NewAssembler(messageRepository contract.MessageRepository) *Assembler {
	return &Assembler{messageRepository: messageRepository}
}

// Assemble loads the conversation transcript in chronological order.
// Messages with empty content are skipped (tool-only turns carry no text),
// as is the row identified by excludeId, which is the current turn's user
// message already persisted before the provider call.
func (a *Assembler) Assemble(ctx context.Context, conversationId int64, excludeId int64) ([]llm.Message, error) {
	rows, err := a.messageRepository.FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(rows))
	for _, row := range rows {
		if row.Id == excludeId || row.Content == "" {
			continue
		}
		role := "user"
		if row.Role == constant.MessageRoleAssistant {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: row.Content})
	}
	return messages, nil
}
