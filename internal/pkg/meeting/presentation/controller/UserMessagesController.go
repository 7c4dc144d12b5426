package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// UserMessagesController returns the messages a user has posted in the
// meeting they are joined to. An explicit meeting_id overrides the
// back-reference lookup.
type UserMessagesController struct {
	UC *usecase.GetMessagesUseCase
}

func NewUserMessagesController(uc *usecase.GetMessagesUseCase) *UserMessagesController {
	return &UserMessagesController{UC: uc}
}

func (h *UserMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
			return
		}
		var meetingID int64
		if raw := c.Query("meeting_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "meeting_id must be a positive integer"})
				return
			}
			meetingID = id
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msgs, err := h.UC.UserMessages(ctx, email, meetingID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": chatMessagesResponse(msgs)})
	}
}
