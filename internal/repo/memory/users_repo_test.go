package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/dkovalenko/todohub/internal/domain/user"
)

func TestCreate_ReturnsPublicRecord(t *testing.T) {
	t.Parallel()

	r := NewUsersRepo()

	pub, err := r.Create(context.Background(), "a@x.com", "A", "p")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if pub.ID == "" {
		t.Fatalf("expected generated id")
	}
	if pub.Email != "a@x.com" || pub.Name != "A" {
		t.Fatalf("unexpected public record: %+v", pub)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	t.Parallel()

	r := NewUsersRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, "dup@x.com", "First", "p1"); err != nil {
		t.Fatalf("first Create error: %v", err)
	}

	_, err := r.Create(ctx, "dup@x.com", "Second", "p2")
	if !errors.Is(err, user.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_EmailMatchIsCaseSensitive(t *testing.T) {
	t.Parallel()

	r := NewUsersRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, "case@x.com", "Lower", "p"); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Different casing is a different user under the exact-match contract.
	if _, err := r.Create(ctx, "Case@x.com", "Upper", "p"); err != nil {
		t.Fatalf("expected case-variant email to register, got %v", err)
	}
}

func TestVerifyCredentials_UniformFailure(t *testing.T) {
	t.Parallel()

	r := NewUsersRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, "v@x.com", "V", "correct"); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, errNoUser := r.VerifyCredentials(ctx, "missing@x.com", "whatever")
	_, errBadPass := r.VerifyCredentials(ctx, "v@x.com", "wrong")

	if !errors.Is(errNoUser, user.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errNoUser)
	}
	if !errors.Is(errBadPass, user.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errBadPass)
	}
	if errNoUser.Error() != errBadPass.Error() {
		t.Fatalf("error surfaces differ: %q vs %q", errNoUser, errBadPass)
	}
}

func TestVerifyCredentials_Success(t *testing.T) {
	t.Parallel()

	r := NewUsersRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, "ok@x.com", "OK", "s3cret")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := r.VerifyCredentials(ctx, "ok@x.com", "s3cret")
	if err != nil {
		t.Fatalf("VerifyCredentials error: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("id mismatch: got %q want %q", got.ID, created.ID)
	}
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	r := NewUsersRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, "id@x.com", "ID", "p")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := r.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got != created {
		t.Fatalf("record mismatch: got %+v want %+v", got, created)
	}

	if _, err := r.GetByID(ctx, "nope"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
