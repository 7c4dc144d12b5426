package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/user/application/usecase"
)

// DeleteUserController removes a user record by email.
type DeleteUserController struct {
	UC *usecase.DeleteUserUseCase
}

func NewDeleteUserController(uc *usecase.DeleteUserUseCase) *DeleteUserController {
	return &DeleteUserController{UC: uc}
}

func (h *DeleteUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
