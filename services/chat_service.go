package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/repository"

	openai "github.com/sashabaranov/go-openai"
)

// ChatService answers CalmBot messages and keeps the user's transcript.
type ChatService interface {
	Reply(ctx context.Context, userID string, message string, history []models.ChatHistoryEntry) (string, error)
	GetChatHistory(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
}

type chatService struct {
	completer    ChatCompleter
	repo         repository.ChatRepository
	historyLimit int
	now          func() time.Time
}

// NewChatService creates a new instance of ChatService. repo may be nil, in
// which case transcripts are not stored.
func NewChatService(completer ChatCompleter, repo repository.ChatRepository, historyLimit int) ChatService {
	return &chatService{
		completer:    completer,
		repo:         repo,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Reply sends the client's prior turns plus message to the model. The
// history in the request is the conversation context; the stored
// transcript is only a record.
func (s *chatService) Reply(ctx context.Context, userID string, message string, history []models.ChatHistoryEntry) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message cannot be empty", ErrContractViolation)
	}

	if s.historyLimit > 0 && len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}

	llmMessages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	llmMessages = append(llmMessages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleSystem, Content: CalmBotSystemPrompt,
	})
	for _, entry := range history {
		text := entry.Text()
		if text == "" {
			continue
		}
		llmMessages = append(llmMessages, openai.ChatCompletionMessage{
			Role:    llmRole(entry.Role),
			Content: text,
		})
	}
	llmMessages = append(llmMessages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: message,
	})

	reply, err := s.completer.Complete(ctx, llmMessages)
	if err != nil {
		log.Printf("ERROR: [ChatService] CalmBot reply for userID '%s' failed: %v", userID, err)
		return "", err
	}

	sentAt := s.now()
	s.record(ctx, &models.ChatMessage{UserID: userID, Role: models.ChatRoleUser, Content: message, Timestamp: sentAt})
	s.record(ctx, &models.ChatMessage{UserID: userID, Role: models.ChatRoleAssistant, Content: reply, Timestamp: s.now()})

	log.Printf("INFO: [ChatService] CalmBot replied to userID '%s' (%d history turns): %.100s...", userID, len(history), reply)
	return reply, nil
}

// GetChatHistory returns the stored transcript, oldest first.
func (s *chatService) GetChatHistory(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	if s.repo == nil {
		return []models.ChatMessage{}, nil
	}
	messages, err := s.repo.GetMessagesByUserID(ctx, userID, limit)
	if err != nil {
		log.Printf("ERROR: [ChatService] Failed to load chat history for userID '%s': %v", userID, err)
		return nil, err
	}
	return messages, nil
}

// record stores a transcript line; failures do not affect the reply.
func (s *chatService) record(ctx context.Context, msg *models.ChatMessage) {
	if s.repo == nil || msg.UserID == "" {
		return
	}
	if err := s.repo.SaveMessage(ctx, msg); err != nil {
		log.Printf("WARN: [ChatService] Failed to store %s message for userID '%s': %v", msg.Role, msg.UserID, err)
	}
}

// llmRole maps the client's role names; anything but "model"/"assistant" is the user.
func llmRole(role string) string {
	switch strings.ToLower(role) {
	case "model", "assistant", "ai":
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
