package mapper

import (
	"testing"

	"taskchat-be/internal/entity"
	"taskchat-be/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestMessageToolCallsRoundTrip(t *testing.T) {
	m := NewChatMapper()

	msg := &entity.Message{
		Id:             1,
		ConversationId: 2,
		Role:           "assistant",
		Content:        "done",
		ToolCalls: []entity.ToolCallRecord{{
			ToolName: "add_task",
			Inputs:   map[string]interface{}{"title": "milk"},
			Output:   entity.ToolOutput{Success: true, Message: "added"},
		}},
	}

	row := m.MessageToModel(msg)
	require.NotEmpty(t, row.ToolCalls)

	back := m.MessageToEntity(row)
	require.Len(t, back.ToolCalls, 1)
	assert.Equal(t, "add_task", back.ToolCalls[0].ToolName)
	assert.Equal(t, "milk", back.ToolCalls[0].Inputs["title"])
	assert.True(t, back.ToolCalls[0].Output.Success)
}

func TestMessageWithoutToolCallsStoresNull(t *testing.T) {
	m := NewChatMapper()

	row := m.MessageToModel(&entity.Message{Role: "assistant", Content: "plain"})
	assert.Nil(t, row.ToolCalls)

	back := m.MessageToEntity(row)
	assert.Nil(t, back.ToolCalls)
}

func TestMessageSurvivesCorruptToolCallsColumn(t *testing.T) {
	m := NewChatMapper()

	row := &model.Message{
		Id:        1,
		Role:      "assistant",
		Content:   "still readable",
		ToolCalls: datatypes.JSON([]byte("{broken")),
	}

	back := m.MessageToEntity(row)
	require.NotNil(t, back)
	assert.Equal(t, "still readable", back.Content)
	assert.Nil(t, back.ToolCalls)
}
