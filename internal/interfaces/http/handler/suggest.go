package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erp/chatbot/internal/domain/reference"
	"github.com/erp/chatbot/internal/domain/shared"
	"github.com/erp/chatbot/internal/interfaces/http/dto"
)

// Suggester serves prefix autocomplete over entity names
type Suggester interface {
	Suggest(ctx context.Context, kind reference.EntityKind, prefix string, limit int) ([]string, error)
}

// SuggestHandler serves the autocomplete endpoints backing the chat UI's
// typeahead fields
type SuggestHandler struct {
	BaseHandler
	suggester Suggester
}

// NewSuggestHandler creates a new SuggestHandler
func NewSuggestHandler(suggester Suggester) *SuggestHandler {
	return &SuggestHandler{suggester: suggester}
}

// RegisterRoutes registers autocomplete routes
func (h *SuggestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/customers", h.suggest(reference.EntityKindCustomer))
	rg.GET("/vendors", h.suggest(reference.EntityKindVendor))
	rg.GET("/items", h.suggest(reference.EntityKindItem))
}

// suggest returns a handler for one entity kind. The body is a plain JSON
// array of names; the chat UI consumes it directly.
func (h *SuggestHandler) suggest(kind reference.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefix := c.Query("search")
		names, err := h.suggester.Suggest(c.Request.Context(), kind, prefix, 0)
		if err != nil {
			if errors.Is(err, shared.ErrResolverUnavailable) {
				h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, "Suggestions are temporarily unavailable")
				return
			}
			h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Suggestions are temporarily unavailable")
			return
		}
		c.JSON(http.StatusOK, names)
	}
}
