package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/infrastructure/realtime"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// PostMessageController appends a chat message to the sender's joined
// meeting and fans it out to websocket subscribers of that meeting.
type PostMessageController struct {
	UC  *usecase.PostMessageUseCase
	Hub *realtime.Hub
}

func NewPostMessageController(uc *usecase.PostMessageUseCase, hub *realtime.Hub) *PostMessageController {
	return &PostMessageController{UC: uc, Hub: hub}
}

type postMessageRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Text      string `json:"text" binding:"required"`
	MeetingID int64  `json:"meeting_id"`
}

// chatEvent is the payload delivered to websocket subscribers.
type chatEvent struct {
	MeetingID int64     `json:"meeting_id"`
	Email     string    `json:"email"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *PostMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req postMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.PostMessageInput{
			Email:     req.Email,
			Text:      req.Text,
			MeetingID: req.MeetingID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		if h.Hub != nil {
			payload, err := json.Marshal(chatEvent{
				MeetingID: msg.MeetingID,
				Email:     msg.Email,
				Text:      msg.Text,
				Timestamp: msg.Timestamp,
			})
			if err == nil {
				h.Hub.Broadcast(msg.MeetingID, payload, msg.Email)
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":    true,
			"meeting_id": msg.MeetingID,
			"timestamp":  msg.Timestamp,
		})
	}
}
