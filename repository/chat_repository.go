package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kaushalkumar0001/StressLess/models"

	"gorm.io/gorm"
)

// ChatRepository stores CalmBot transcripts.
type ChatRepository interface {
	SaveMessage(ctx context.Context, message *models.ChatMessage) error
	GetMessagesByUserID(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new instance of ChatRepository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// SaveMessage persists one message.
func (r *chatRepository) SaveMessage(ctx context.Context, message *models.ChatMessage) error {
	if message == nil || message.UserID == "" {
		return errors.New("chat message must have a user ID")
	}
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to save chat message for userID %s: %w", message.UserID, err)
	}
	log.Printf("INFO: [ChatRepository] Saved message ID %d for userID %s (role %s, content '%.30s...').", message.ID, message.UserID, message.Role, message.Content)
	return nil
}

// GetMessagesByUserID returns the most recent limit messages in chronological
// order. limit <= 0 returns the whole transcript. A user with no messages gets
// an empty slice, not an error.
func (r *chatRepository) GetMessagesByUserID(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch chat messages for userID %s: %w", userID, err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
