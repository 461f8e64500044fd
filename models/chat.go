package models

import (
	"time"
)

// Chat roles as stored. The frontend calls the assistant "model".
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one stored line of a user's CalmBot transcript.
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null"` // "user" or "assistant"
	Content   string    `json:"content" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}

// TableName specifies the table name for the ChatMessage model.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ChatPart mirrors the frontend's {text} message part.
type ChatPart struct {
	Text string `json:"text"`
}

// ChatHistoryEntry is a prior turn as the client sends it.
type ChatHistoryEntry struct {
	Role  string     `json:"role"` // "user" or "model"
	Parts []ChatPart `json:"parts"`
}

// Text returns the first part's text, or "" when the entry has no parts.
func (e ChatHistoryEntry) Text() string {
	if len(e.Parts) == 0 {
		return ""
	}
	return e.Parts[0].Text
}
