package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// EndMeetingController tears down the live projection of a meeting and
// reports the participants that were still joined at that moment.
type EndMeetingController struct {
	UC *usecase.EndMeetingUseCase
}

func NewEndMeetingController(uc *usecase.EndMeetingUseCase) *EndMeetingController {
	return &EndMeetingController{UC: uc}
}

func (h *EndMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingIDParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		timedOut, err := h.UC.Execute(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if timedOut == nil {
			timedOut = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "timed_out_participants": timedOut})
	}
}
