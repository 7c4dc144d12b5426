package usecase

import (
	"context"
	"fmt"

	user "github.com/HliasMpGH/StepIn/internal/pkg/user/application/domain"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/user/persistence/repository/port"
)

// DeleteUserUseCase removes a user record by email.
type DeleteUserUseCase struct {
	Repo repository.UserRepository
}

func NewDeleteUserUseCase(repo repository.UserRepository) *DeleteUserUseCase {
	return &DeleteUserUseCase{Repo: repo}
}

func (uc *DeleteUserUseCase) Execute(ctx context.Context, email string) error {
	deleted, err := uc.Repo.DeleteUser(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !deleted {
		return user.ErrNotFound
	}
	return nil
}
