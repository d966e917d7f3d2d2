package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dkovalenko/todohub/internal/domain/user"
	"github.com/dkovalenko/todohub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type fakeUserStore struct {
	createFn func(ctx context.Context, email, name, password string) (user.Public, error)
	verifyFn func(ctx context.Context, email, password string) (user.Public, error)
}

func (f *fakeUserStore) Create(ctx context.Context, email, name, password string) (user.Public, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, name, password)
	}
	return user.Public{}, nil
}

func (f *fakeUserStore) VerifyCredentials(ctx context.Context, email, password string) (user.Public, error) {
	if f.verifyFn != nil {
		return f.verifyFn(ctx, email, password)
	}
	return user.Public{}, nil
}

type fakeIssuer struct {
	token string
	err   error
}

func (f *fakeIssuer) Issue(userID, email string) (string, error) {
	return f.token, f.err
}

func setupAuthRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, h)
	return r
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		storeSetUp func(*fakeUserStore)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"email": "a@x.com", "name": "A", "password": "p"}`,
			storeSetUp: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, email, name, password string) (user.Public, error) {
					return user.Public{ID: "u1", Email: email, Name: name}, nil
				}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: `{"email": "a@x.com", "name": "A", "password": "p"}`,
			storeSetUp: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, email, name, password string) (user.Public, error) {
					return user.Public{}, user.ErrAlreadyExists
				}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing email",
			body:       `{"name": "A", "password": "p"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email",
			body:       `{"email": "nope", "name": "A", "password": "p"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			body:       `{"email": "a@x.com", "name": "A"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store failure",
			body: `{"email": "a@x.com", "name": "A", "password": "p"}`,
			storeSetUp: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, email, name, password string) (user.Public, error) {
					return user.Public{}, errors.New("boom")
				}
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeUserStore{}
			if tc.storeSetUp != nil {
				tc.storeSetUp(store)
			}

			h := handlers.NewAuthHandler(store, &fakeIssuer{token: "tok"})
			r := setupAuthRouter(http.MethodPost, "/api/users/register", h.Register)

			w := doJSON(r, http.MethodPost, "/api/users/register", tc.body)

			if w.Code != tc.wantStatus {
				t.Fatalf("status: got %d want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantStatus == http.StatusCreated {
				var pub user.Public
				if err := json.Unmarshal(w.Body.Bytes(), &pub); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if pub.ID == "" || pub.Email != "a@x.com" {
					t.Fatalf("unexpected public user: %+v", pub)
				}
				var raw map[string]interface{}
				_ = json.Unmarshal(w.Body.Bytes(), &raw)
				if _, leaked := raw["passwordHash"]; leaked {
					t.Fatalf("password hash leaked in response: %s", w.Body.String())
				}
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		store      *fakeUserStore
		issuer     *fakeIssuer
		wantStatus int
	}{
		{
			name: "success",
			body: `{"email": "a@x.com", "password": "p"}`,
			store: &fakeUserStore{
				verifyFn: func(ctx context.Context, email, password string) (user.Public, error) {
					return user.Public{ID: "u1", Email: email}, nil
				},
			},
			issuer:     &fakeIssuer{token: "signed-token"},
			wantStatus: http.StatusOK,
		},
		{
			name: "bad credentials",
			body: `{"email": "a@x.com", "password": "wrong"}`,
			store: &fakeUserStore{
				verifyFn: func(ctx context.Context, email, password string) (user.Public, error) {
					return user.Public{}, user.ErrInvalidCredentials
				},
			},
			issuer:     &fakeIssuer{token: "unused"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			body:       `{"email": "a@x.com"}`,
			store:      &fakeUserStore{},
			issuer:     &fakeIssuer{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "token issue failure",
			body: `{"email": "a@x.com", "password": "p"}`,
			store: &fakeUserStore{
				verifyFn: func(ctx context.Context, email, password string) (user.Public, error) {
					return user.Public{ID: "u1", Email: email}, nil
				},
			},
			issuer:     &fakeIssuer{err: errors.New("no key")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(tc.store, tc.issuer)
			r := setupAuthRouter(http.MethodPost, "/api/users/login", h.Login)

			w := doJSON(r, http.MethodPost, "/api/users/login", tc.body)

			if w.Code != tc.wantStatus {
				t.Fatalf("status: got %d want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantStatus == http.StatusOK {
				var resp struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if resp.Token != "signed-token" {
					t.Fatalf("token: got %q want %q", resp.Token, "signed-token")
				}
			}
		})
	}
}
