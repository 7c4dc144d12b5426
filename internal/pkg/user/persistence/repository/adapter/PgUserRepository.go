package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	user "github.com/HliasMpGH/StepIn/internal/pkg/user/application/domain"
	repository "github.com/HliasMpGH/StepIn/internal/pkg/user/persistence/repository/port"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) CreateUser(ctx context.Context, u user.User) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx,
		"INSERT INTO users (email, name, age, gender) VALUES ($1, $2, $3, $4)",
		u.Email, u.Name, u.Age, u.Gender,
	)
	return err
}

func (r *PgUserRepository) GetUser(ctx context.Context, email string) (*user.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u user.User
	err := r.pool.QueryRow(ctx,
		"SELECT email, name, age, gender FROM users WHERE email = $1",
		email,
	).Scan(&u.Email, &u.Name, &u.Age, &u.Gender)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) DeleteUser(ctx context.Context, email string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgUserRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, "DELETE FROM users WHERE email = $1", email)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
