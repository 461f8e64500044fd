package api

import (
	"net/http"
	"strconv"

	"github.com/kaushalkumar0001/StressLess/middleware"
	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/utils"

	"github.com/gin-gonic/gin"
)

// ClientChatRequest is one CalmBot turn. History holds the earlier turns as
// the client renders them.
type ClientChatRequest struct {
	Message string                    `json:"message" binding:"required"`
	History []models.ChatHistoryEntry `json:"history"`
}

const defaultChatHistoryPage = 50

// ChatHandler answers a CalmBot message.
// POST /api/chat
func (h *APIHandler) ChatHandler(c *gin.Context) {
	var clientReq ClientChatRequest
	if err := c.ShouldBindJSON(&clientReq); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	reply, err := h.chatService.Reply(c.Request.Context(), middleware.UserID(c), clientReq.Message, clientReq.History)
	if err != nil {
		sendServiceError(c, err, "Failed to get AI response.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Reply generated",
		"data":    gin.H{"text": reply},
	})
}

// ChatHistoryHandler returns the caller's stored transcript, oldest first.
// GET /api/chat/history?limit=50
func (h *APIHandler) ChatHistoryHandler(c *gin.Context) {
	limit := defaultChatHistoryPage
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid limit parameter.", err)
			return
		}
		limit = parsed
	}

	messages, err := h.chatService.GetChatHistory(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch chat history.", err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Chat history retrieved successfully",
		"data":    messages,
	})
}
