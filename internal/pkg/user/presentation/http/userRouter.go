package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HliasMpGH/StepIn/internal/pkg/user/application/usecase"
	"github.com/HliasMpGH/StepIn/internal/pkg/user/persistence/repository/adapter"
	"github.com/HliasMpGH/StepIn/internal/pkg/user/presentation/controller"
)

// RegisterRoutes registers user endpoints under the given router group.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool) {
	repo := adapter.NewPgUserRepository(pool)

	createCtl := controller.NewCreateUserController(usecase.NewCreateUserUseCase(repo))
	getCtl := controller.NewGetUserController(usecase.NewGetUserUseCase(repo))
	deleteCtl := controller.NewDeleteUserController(usecase.NewDeleteUserUseCase(repo))

	// POST /api/v1/users -> register a user
	g.POST("/users", createCtl.Handle())

	// GET /api/v1/users/:email -> one user record
	g.GET("/users/:email", getCtl.Handle())

	// DELETE /api/v1/users/:email -> remove a user
	g.DELETE("/users/:email", deleteCtl.Handle())
}
