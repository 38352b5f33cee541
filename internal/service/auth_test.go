package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ratehub/ratehub/internal/auth"
)

const testBcryptCost = 4 // keep tests fast

func newAuthTestService() (*AuthService, *fakeUserStore) {
	users := newFakeUserStore()
	tokens := auth.NewTokenService([]byte("service-test-secret"), time.Hour)
	return NewAuthService(users, tokens, testBcryptCost, nil), users
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "long-enough-password",
	}
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	svc, users := newAuthTestService()

	result, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if result.Token == "" {
		t.Error("expected a token to be issued")
	}
	if result.User.ID == 0 {
		t.Error("expected a persisted user ID")
	}
	if result.User.Username != "alice" {
		t.Errorf("expected username alice, got %q", result.User.Username)
	}

	stored, err := users.GetUserByID(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("user should be persisted: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "long-enough-password" {
		t.Error("password must be stored hashed, never in plaintext")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, users := newAuthTestService()

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	// Same email, different username
	second := validRegisterInput()
	second.Username = "alice2"

	if _, err := svc.Register(context.Background(), second); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}

	if len(users.users) != 1 {
		t.Errorf("expected exactly 1 user row, got %d", len(users.users))
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthTestService()

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	second := validRegisterInput()
	second.Email = "other@example.com"

	if _, err := svc.Register(context.Background(), second); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthTestService()

	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{"short_username", func(i *RegisterInput) { i.Username = "ab" }, ErrInvalidUsername},
		{"long_username", func(i *RegisterInput) { i.Username = "abcdefghijklmnopqrstuvwxyz01234" }, ErrInvalidUsername},
		{"bad_email", func(i *RegisterInput) { i.Email = "not-an-email" }, ErrInvalidEmail},
		{"empty_email", func(i *RegisterInput) { i.Email = "" }, ErrInvalidEmail},
		{"short_password", func(i *RegisterInput) { i.Password = "short" }, ErrPasswordTooShort},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			input := validRegisterInput()
			test.mutate(&input)

			if _, err := svc.Register(context.Background(), input); !errors.Is(err, test.wantErr) {
				t.Errorf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthTestService()

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "alice@example.com", "long-enough-password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if result.Token == "" {
		t.Error("expected a token to be issued")
	}
	if result.User.Username != "alice" {
		t.Errorf("expected username alice, got %q", result.User.Username)
	}
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthTestService()

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Unknown email and wrong password must fail identically so responses
	// cannot be used to enumerate accounts.
	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "long-enough-password")
	_, wrongErr := svc.Login(context.Background(), "alice@example.com", "wrong-password-here")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Error("both failure modes must produce the identical error")
	}
}

func TestLogin_TokenResolvesToUser(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	tokens := auth.NewTokenService([]byte("service-test-secret"), time.Hour)
	svc := NewAuthService(users, tokens, testBcryptCost, nil)

	registered, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	principal, err := tokens.Verify(registered.Token)
	if err != nil {
		t.Fatalf("issued token should verify: %v", err)
	}
	if principal.UserID != registered.User.ID {
		t.Errorf("token subject mismatch: got %d, want %d", principal.UserID, registered.User.ID)
	}
	if principal.Username != "alice" {
		t.Errorf("token username mismatch: got %q", principal.Username)
	}
}
