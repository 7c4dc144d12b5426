package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// JoinMeetingController marks an invited participant as physically present
// in an active meeting.
type JoinMeetingController struct {
	UC *usecase.JoinMeetingUseCase
}

func NewJoinMeetingController(uc *usecase.JoinMeetingUseCase) *JoinMeetingController {
	return &JoinMeetingController{UC: uc}
}

type joinMeetingRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *JoinMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingIDParam(c)
		if !ok {
			return
		}
		var req joinMeetingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, req.Email, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
