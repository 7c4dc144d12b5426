package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// ActiveMeetingsController lists the IDs of all currently active meetings.
type ActiveMeetingsController struct {
	UC *usecase.ListMeetingsUseCase
}

func NewActiveMeetingsController(uc *usecase.ListMeetingsUseCase) *ActiveMeetingsController {
	return &ActiveMeetingsController{UC: uc}
}

func (h *ActiveMeetingsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ids, err := h.UC.Active(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if ids == nil {
			ids = []int64{}
		}
		c.JSON(http.StatusOK, gin.H{"active_meetings": ids})
	}
}
