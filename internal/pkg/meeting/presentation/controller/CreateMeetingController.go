package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// CreateMeetingController handles the create-meeting endpoint only (one
// controller per endpoint).
type CreateMeetingController struct {
	UC *usecase.CreateMeetingUseCase
}

func NewCreateMeetingController(uc *usecase.CreateMeetingUseCase) *CreateMeetingController {
	return &CreateMeetingController{UC: uc}
}

// createMeetingRequest is the DTO for the HTTP request body.
type createMeetingRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	T1           time.Time `json:"t1" binding:"required"`
	T2           time.Time `json:"t2" binding:"required"`
	Lat          float64   `json:"lat"`
	Long         float64   `json:"long"`
	Participants string    `json:"participants" binding:"required"`
}

func (h *CreateMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createMeetingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		id, err := h.UC.Execute(ctx, usecase.CreateMeetingInput{
			Title:        req.Title,
			Description:  req.Description,
			T1:           req.T1,
			T2:           req.T2,
			Lat:          req.Lat,
			Long:         req.Long,
			Participants: req.Participants,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "meeting_id": id})
	}
}
