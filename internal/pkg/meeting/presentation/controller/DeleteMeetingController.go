package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// DeleteMeetingController removes a meeting from the durable store and
// tears down any live projection it still has. The optional requester
// query parameter must name an invited participant.
type DeleteMeetingController struct {
	UC *usecase.DeleteMeetingUseCase
}

func NewDeleteMeetingController(uc *usecase.DeleteMeetingUseCase) *DeleteMeetingController {
	return &DeleteMeetingController{UC: uc}
}

func (h *DeleteMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingIDParam(c)
		if !ok {
			return
		}
		requester := c.Query("requester")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, id, requester); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
