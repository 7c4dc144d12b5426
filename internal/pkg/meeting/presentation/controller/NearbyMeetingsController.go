package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// NearbyMeetingsController lists active meetings within proximity of a
// user's position, restricted to meetings the user is invited to.
type NearbyMeetingsController struct {
	UC *usecase.NearbyMeetingsUseCase
}

func NewNearbyMeetingsController(uc *usecase.NearbyMeetingsUseCase) *NearbyMeetingsController {
	return &NearbyMeetingsController{UC: uc}
}

func (h *NearbyMeetingsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
			return
		}
		x, errX := strconv.ParseFloat(c.Query("x"), 64)
		y, errY := strconv.ParseFloat(c.Query("y"), 64)
		if errX != nil || errY != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "x and y query parameters must be valid coordinates"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		ids, err := h.UC.Execute(ctx, email, x, y)
		if err != nil {
			respondError(c, err)
			return
		}
		if ids == nil {
			ids = []int64{}
		}
		c.JSON(http.StatusOK, gin.H{"nearby_meetings": ids})
	}
}
