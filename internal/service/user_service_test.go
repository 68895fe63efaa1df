package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akulasagar/aura-backend/internal/config"
	"github.com/akulasagar/aura-backend/internal/model"
)

func newUserService(t *testing.T) (*UserService, *model.User) {
	t.Helper()
	db := newTestDB(t)
	users, _ := newRepos(db)
	cfg := config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	return NewUserService(users, cfg), seedUser(t, db, "seeded@example.com", "")
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, "Sagar", "Sagar@Example.com ", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Fatal("Register returned empty token")
	}

	// Email lookup is case-insensitive because both sides lowercase.
	if _, err := svc.Login(ctx, "sagar@example.com", "hunter22"); err != nil {
		t.Errorf("Login: %v", err)
	}
	if _, err := svc.Login(ctx, "sagar@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	cases := []struct {
		name, userName, email, password string
	}{
		{"missing name", "", "a@b.com", "hunter22"},
		{"bad email", "Sagar", "not-an-email", "hunter22"},
		{"short password", "Sagar", "a@b.com", "12345"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.userName, tc.email, tc.password); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: got %v, want ErrInvalid", tc.name, err)
		}
	}

	if _, err := svc.Register(ctx, "Dup", "seeded@example.com", "hunter22"); !errors.Is(err, ErrInvalid) {
		t.Errorf("duplicate email: got %v, want ErrInvalid", err)
	}
}

func TestSavePushToken(t *testing.T) {
	svc, user := newUserService(t)
	ctx := context.Background()

	if err := svc.SavePushToken(ctx, user.ID, " "); !errors.Is(err, ErrInvalid) {
		t.Errorf("blank token: got %v, want ErrInvalid", err)
	}
	if err := svc.SavePushToken(ctx, user.ID, "ExponentPushToken[abc]"); err != nil {
		t.Fatalf("SavePushToken: %v", err)
	}
}
