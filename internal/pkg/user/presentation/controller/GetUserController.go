package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/user/application/usecase"
)

// GetUserController reads one user record by email.
type GetUserController struct {
	UC *usecase.GetUserUseCase
}

func NewGetUserController(uc *usecase.GetUserUseCase) *GetUserController {
	return &GetUserController{UC: uc}
}

func (h *GetUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		u, err := h.UC.Execute(ctx, email)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
