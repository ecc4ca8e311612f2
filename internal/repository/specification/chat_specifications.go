package specification

import "gorm.io/gorm"

// ByConversationID filters messages of one conversation
type ByConversationID struct {
	ConversationID int64
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}
