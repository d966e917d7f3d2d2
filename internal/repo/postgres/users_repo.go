package postgres

import (
	"context"
	"errors"

	"github.com/dkovalenko/todohub/internal/domain/user"
	"github.com/dkovalenko/todohub/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// UsersRepo is the persistent credential-store backend, selected when
// DATABASE_URL is configured. Same contract as the in-memory store.
type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

func (r *UsersRepo) Create(ctx context.Context, email, name, password string) (user.Public, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return user.Public{}, err
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO users(id, email, name, password_hash) VALUES($1, $2, $3, $4)`,
		u.ID, u.Email, u.Name, u.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.Public{}, user.ErrAlreadyExists
		}

		return user.Public{}, err
	}

	return u.Public(), nil
}

func (r *UsersRepo) VerifyCredentials(ctx context.Context, email, password string) (user.Public, error) {
	var u user.User

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Public{}, user.ErrInvalidCredentials
		}

		return user.Public{}, err
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.Public{}, user.ErrInvalidCredentials
	}

	return u.Public(), nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.Public, error) {
	var u user.User

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Public{}, user.ErrNotFound
		}

		return user.Public{}, err
	}

	return u.Public(), nil
}
