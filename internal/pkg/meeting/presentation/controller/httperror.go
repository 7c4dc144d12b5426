package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	meeting "github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/domain"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
)

// respondError maps domain and use-case errors onto HTTP statuses:
// validation 400, missing records 404, unauthorized 403, business-rule
// conflicts 409, store unavailability 503.
func respondError(c *gin.Context, err error) {
	var vErr *meeting.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, meeting.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case meeting.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case meeting.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store temporarily unavailable, retry later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// meetingIDParam parses the :meetingId path segment.
func meetingIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("meetingId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetingId must be a positive integer"})
		return 0, false
	}
	return id, true
}
