package user

import "errors"

var (
	ErrAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials is deliberately shared between "no such user"
	// and "wrong password"; callers must not be able to tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
)

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // never expose hash in JSON
}

// Public is the record minus the hash — the only shape that leaves the store.
type Public struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, Email: u.Email, Name: u.Name}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
