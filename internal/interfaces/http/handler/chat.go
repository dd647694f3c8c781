package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/chatbot/internal/application/chat"
	"github.com/erp/chatbot/internal/domain/shared"
	"github.com/erp/chatbot/internal/infrastructure/logger"
	"github.com/erp/chatbot/internal/interfaces/http/dto"
)

// ChatService handles one conversation turn
type ChatService interface {
	Handle(ctx context.Context, req *chat.Request) (*chat.Response, error)
}

// ChatHandler serves the conversational order-entry endpoint
type ChatHandler struct {
	BaseHandler
	service ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// RegisterRoutes registers chat routes
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chatbot", h.HandleTurn)
}

// HandleTurn processes one chat turn. The response body keeps the flat
// legacy wire shape rather than the envelope; existing chat clients
// depend on it.
func (h *ChatHandler) HandleTurn(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.Handle(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "session_id is required")
			return
		}
		logger.GetGinLogger(c).Error("chat turn failed", zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Something went wrong. Please start again.")
		return
	}

	c.JSON(http.StatusOK, resp)
}
