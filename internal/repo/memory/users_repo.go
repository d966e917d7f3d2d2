package memory

import (
	"context"
	"sync"

	"github.com/dkovalenko/todohub/internal/domain/user"
	"github.com/dkovalenko/todohub/internal/security"
	"github.com/google/uuid"
)

// UsersRepo keeps the user set in process memory for the lifetime of the
// server. Nothing survives a restart; that is the documented contract of
// the default backend, not an oversight.
type UsersRepo struct {
	mu      sync.RWMutex
	byEmail map[string]user.User
	byID    map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byEmail: make(map[string]user.User),
		byID:    make(map[string]user.User),
	}
}

// Create registers a new user, hashing the password before anything is
// stored. Email matching is case-sensitive, exact.
func (r *UsersRepo) Create(ctx context.Context, email, name, password string) (user.Public, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return user.Public{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return user.Public{}, user.ErrAlreadyExists
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	r.byEmail[u.Email] = u
	r.byID[u.ID] = u

	return u.Public(), nil
}

// VerifyCredentials returns the same error for an unknown email and a
// wrong password.
func (r *UsersRepo) VerifyCredentials(ctx context.Context, email, password string) (user.Public, error) {
	r.mu.RLock()
	u, ok := r.byEmail[email]
	r.mu.RUnlock()

	if !ok {
		return user.Public{}, user.ErrInvalidCredentials
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.Public{}, user.ErrInvalidCredentials
	}

	return u.Public(), nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.Public, error) {
	r.mu.RLock()
	u, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return user.Public{}, user.ErrNotFound
	}

	return u.Public(), nil
}
