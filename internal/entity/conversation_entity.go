package entity

import "time"

type Conversation struct {
	Id        int64
	UserId    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	Id             int64
	ConversationId int64
	Role           string
	Content        string
	ToolCalls      []ToolCallRecord // nil when the turn involved no tools
	CreatedAt      time.Time
}
