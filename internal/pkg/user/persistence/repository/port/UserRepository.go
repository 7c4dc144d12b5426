package repository

import (
	"context"

	user "github.com/HliasMpGH/StepIn/internal/pkg/user/application/domain"
)

// UserRepository defines durable persistence operations for user records.
type UserRepository interface {
	// CreateUser inserts the record; the email must not exist yet.
	CreateUser(ctx context.Context, u user.User) error

	// GetUser returns the record, or (nil, nil) when absent.
	GetUser(ctx context.Context, email string) (*user.User, error)

	// DeleteUser removes the record and reports whether it existed.
	DeleteUser(ctx context.Context, email string) (bool, error)
}
