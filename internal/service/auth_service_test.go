package service

import (
	"errors"
	"testing"
	"time"

	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/pkg/auth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(users, jwtManager, nil, nil), users
}

func TestRegister(t *testing.T) {
	svc, users := newAuthFixture(t)

	resp, err := svc.Register(model.RegisterRequest{
		Username: "alice",
		Email:    "alice@flint.local",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Token == "" {
		t.Error("no session token issued")
	}
	if resp.User.Username != "alice" {
		t.Errorf("username = %q", resp.User.Username)
	}

	stored, err := users.FindByEmail("alice@flint.local")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	// Password is stored hashed, never verbatim
	if stored.Password == "password123" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newAuthFixture(t)

	req := model.RegisterRequest{Username: "alice", Email: "alice@flint.local", Password: "password123"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := svc.Register(req); !errors.Is(err, model.ErrUserExists) {
		t.Errorf("duplicate email: err = %v, want ErrUserExists", err)
	}

	// Same username, different email
	req.Email = "alice2@flint.local"
	if _, err := svc.Register(req); !errors.Is(err, model.ErrUserExists) {
		t.Errorf("duplicate username: err = %v, want ErrUserExists", err)
	}
}

func TestRegisterBlankUsername(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(model.RegisterRequest{Username: "   ", Email: "x@flint.local", Password: "password123"})
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	if _, err := svc.Register(model.RegisterRequest{Username: "alice", Email: "alice@flint.local", Password: "password123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.Login(model.LoginRequest{Email: "alice@flint.local", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("no session token issued")
	}

	// Wrong password and unknown email both map to the same auth error
	if _, err := svc.Login(model.LoginRequest{Email: "alice@flint.local", Password: "wrong"}); !errors.Is(err, model.ErrAuth) {
		t.Errorf("wrong password: err = %v, want ErrAuth", err)
	}
	if _, err := svc.Login(model.LoginRequest{Email: "nobody@flint.local", Password: "password123"}); !errors.Is(err, model.ErrAuth) {
		t.Errorf("unknown email: err = %v, want ErrAuth", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	resp, err := svc.Register(model.RegisterRequest{Username: "alice", Email: "alice@flint.local", Password: "password123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	userID := resp.User.ID

	// Wrong current password is rejected
	err = svc.ChangePassword(userID, model.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword"})
	if !errors.Is(err, model.ErrAuth) {
		t.Errorf("err = %v, want ErrAuth", err)
	}

	if err := svc.ChangePassword(userID, model.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(model.LoginRequest{Email: "alice@flint.local", Password: "newpassword"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := svc.Login(model.LoginRequest{Email: "alice@flint.local", Password: "password123"}); !errors.Is(err, model.ErrAuth) {
		t.Errorf("old password still works: err = %v", err)
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	if _, err := svc.GetProfile(uuid.New()); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
