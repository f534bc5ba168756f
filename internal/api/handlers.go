// Package api exposes the chat backend over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hrassist/internal/llm"
	"hrassist/internal/metrics"
	"hrassist/pkg/logger"
)

// ServiceName identifies this service in health responses.
const ServiceName = "hr-rag-api"

// ChatService answers one chat request. The reply is always usable; provider
// failures are converted to a user-safe text before reaching this boundary.
type ChatService interface {
	Run(ctx context.Context, message string, history []llm.Message) string
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	chat     ChatService
	counters *metrics.Counters
	log      *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(chat ChatService, counters *metrics.Counters, log *logger.Logger) *Handler {
	return &Handler{chat: chat, counters: counters, log: log}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []chatMessage `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat handles POST /chat.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history := make([]llm.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}

	reply := h.chat.Run(c.Request.Context(), req.Message, history)
	c.JSON(http.StatusOK, chatResponse{Reply: reply})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": ServiceName})
}

// Metrics handles GET /metrics with a snapshot of the process counters.
func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.counters.Snapshot())
}
