package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// GetMeetingController returns one durable meeting record.
type GetMeetingController struct {
	UC *usecase.GetMeetingUseCase
}

func NewGetMeetingController(uc *usecase.GetMeetingUseCase) *GetMeetingController {
	return &GetMeetingController{UC: uc}
}

func (h *GetMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingIDParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		m, err := h.UC.Execute(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"meeting_id":   m.ID,
			"title":        m.Title,
			"description":  m.Description,
			"t1":           m.T1,
			"t2":           m.T2,
			"lat":          m.Lat,
			"long":         m.Long,
			"participants": m.ParticipantList(),
		})
	}
}
