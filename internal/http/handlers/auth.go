package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkovalenko/todohub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// UserStore is the credential-store contract; hashing and verification
// live behind it, handlers never see a password hash.
type UserStore interface {
	Create(ctx context.Context, email, name, password string) (user.Public, error)
	VerifyCredentials(ctx context.Context, email, password string) (user.Public, error)
}

type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	created, err := h.users.Create(ctx.Request.Context(), req.Email, req.Name, req.Password)

	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			RespondError(ctx, http.StatusBadRequest, "already_exists", "Email is already in use.", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// one uniform failure for unknown email and wrong password
	found, err := h.users.VerifyCredentials(ctx.Request.Context(), req.Email, req.Password)

	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	token, err := h.jwt.Issue(found.ID, found.Email)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
