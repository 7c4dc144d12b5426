package usecase

import (
	"context"
	"fmt"

	user "github.com/HliasMpGH/StepIn/internal/pkg/user/application/domain"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/user/persistence/repository/port"
)

// GetUserUseCase reads a user record by email.
type GetUserUseCase struct {
	Repo repository.UserRepository
}

func NewGetUserUseCase(repo repository.UserRepository) *GetUserUseCase {
	return &GetUserUseCase{Repo: repo}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, email string) (*user.User, error) {
	u, err := uc.Repo.GetUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if u == nil {
		return nil, user.ErrNotFound
	}
	return u, nil
}
