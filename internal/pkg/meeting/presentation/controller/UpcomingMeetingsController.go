package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// UpcomingMeetingsController lists the IDs of meetings whose window has
// not opened yet.
type UpcomingMeetingsController struct {
	UC *usecase.ListMeetingsUseCase
}

func NewUpcomingMeetingsController(uc *usecase.ListMeetingsUseCase) *UpcomingMeetingsController {
	return &UpcomingMeetingsController{UC: uc}
}

func (h *UpcomingMeetingsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ids, err := h.UC.Upcoming(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if ids == nil {
			ids = []int64{}
		}
		c.JSON(http.StatusOK, gin.H{"upcoming_meetings": ids})
	}
}
