package usecase

import (
	"context"
	"fmt"

	user "github.com/HliasMpGH/StepIn/internal/pkg/user/application/domain"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/user/persistence/repository/port"
)

// ErrPersistence indicates an infrastructure/repository failure inside a
// user use case.
var ErrPersistence = fmt.Errorf("user use case persistence error")

// CreateUserInput carries the attributes of a new user.
type CreateUserInput struct {
	Email  string
	Name   string
	Age    int
	Gender string
}

// CreateUserUseCase validates and persists a new user record.
type CreateUserUseCase struct {
	Repo repository.UserRepository
}

func NewCreateUserUseCase(repo repository.UserRepository) *CreateUserUseCase {
	return &CreateUserUseCase{Repo: repo}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, in CreateUserInput) error {
	u, err := user.NewUser(in.Email, in.Name, in.Age, in.Gender)
	if err != nil {
		return err
	}

	existing, err := uc.Repo.GetUser(ctx, u.Email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing != nil {
		return user.ErrExists
	}

	if err := uc.Repo.CreateUser(ctx, *u); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
