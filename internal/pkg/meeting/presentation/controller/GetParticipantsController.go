package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// GetParticipantsController lists the participants currently joined to an
// active meeting.
type GetParticipantsController struct {
	UC *usecase.GetParticipantsUseCase
}

func NewGetParticipantsController(uc *usecase.GetParticipantsUseCase) *GetParticipantsController {
	return &GetParticipantsController{UC: uc}
}

func (h *GetParticipantsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingIDParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		joined, err := h.UC.Execute(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if joined == nil {
			joined = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"joined_participants": joined})
	}
}
