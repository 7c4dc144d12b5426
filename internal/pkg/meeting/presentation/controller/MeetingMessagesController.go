package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// MeetingMessagesController returns the chronological chat log of a
// meeting, live when the meeting is active and durable otherwise.
type MeetingMessagesController struct {
	UC *usecase.GetMessagesUseCase
}

func NewMeetingMessagesController(uc *usecase.GetMessagesUseCase) *MeetingMessagesController {
	return &MeetingMessagesController{UC: uc}
}

type chatMessageResponse struct {
	Email     string    `json:"email"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func chatMessagesResponse(msgs []meeting.ChatMessage) []chatMessageResponse {
	out := make([]chatMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chatMessageResponse{Email: m.Email, Text: m.Text, Timestamp: m.Timestamp})
	}
	return out
}

func (h *MeetingMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingIDParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msgs, err := h.UC.MeetingMessages(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": chatMessagesResponse(msgs)})
	}
}
