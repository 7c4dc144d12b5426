package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// LeaveMeetingController removes a joined participant from an active
// meeting and records the departure.
type LeaveMeetingController struct {
	UC *usecase.LeaveMeetingUseCase
}

func NewLeaveMeetingController(uc *usecase.LeaveMeetingUseCase) *LeaveMeetingController {
	return &LeaveMeetingController{UC: uc}
}

type leaveMeetingRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *LeaveMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingIDParam(c)
		if !ok {
			return
		}
		var req leaveMeetingRequest
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
