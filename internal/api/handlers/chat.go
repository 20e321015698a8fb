package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/chat"
)

// Chat forwards a question to the assistant. A caller-supplied api_key is used in
// place of the server key.
func Chat(assistant *chat.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Message string `json:"message"`
			APIKey  string `json:"api_key"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
			return
		}

		clientID := c.GetHeader("X-Client-ID")
		if clientID == "" {
			clientID = c.ClientIP()
		}

		msg, err := assistant.Ask(c.Request.Context(), clientID, req.Message, req.APIKey)
		var upstream *chat.UpstreamError
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": msg})
		case errors.Is(err, chat.ErrChatDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		case errors.Is(err, chat.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		case errors.Is(err, chat.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.As(err, &upstream):
			c.JSON(upstream.Status, gin.H{"error": upstream.Message})
		default:
			log.Printf("[CHAT] request failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}
}
