package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HliasMpGH/StepIn/internal/pkg/user/application/usecase"
)

// CreateUserController registers a new user record.
type CreateUserController struct {
	UC *usecase.CreateUserUseCase
}

func NewCreateUserController(uc *usecase.CreateUserUseCase) *CreateUserController {
	return &CreateUserController{UC: uc}
}

type createUserRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required"`
	Gender string `json:"gender" binding:"required"`
}

func (h *CreateUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.CreateUserInput{
			Email:  req.Email,
			Name:   req.Name,
			Age:    req.Age,
			Gender: req.Gender,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "email": req.Email})
	}
}
