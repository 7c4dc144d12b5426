package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	user "github.com/HliasMpGH/StepIn/internal/pkg/user/application/domain"
	"github.com/HliasMpGH/StepIn/internal/pkg/user/application/usecase"
)

func respondError(c *gin.Context, err error) {
	var vErr *user.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store temporarily unavailable, retry later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
