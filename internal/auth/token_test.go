package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ratehub/ratehub/internal/model"
)

var testSecret = []byte("test-secret-which-is-long-enough")

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, time.Hour)

	principals := []model.Principal{
		{UserID: 1, Username: "alice"},
		{UserID: 42, Username: "bob-the-builder"},
		{UserID: 9007199254740991, Username: "big"},
	}

	for _, principal := range principals {
		token, err := svc.Issue(principal)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		got, err := svc.Verify(token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}

		if got.UserID != principal.UserID {
			t.Errorf("UserID mismatch: got %d, want %d", got.UserID, principal.UserID)
		}
		if got.Username != principal.Username {
			t.Errorf("Username mismatch: got %q, want %q", got.Username, principal.Username)
		}
	}
}

func TestTokenService_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, -time.Minute)

	token, err := svc.Issue(model.Principal{UserID: 1, Username: "alice"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenService_TamperedSignature(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Issue(model.Principal{UserID: 7, Username: "mallory"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character in the signature segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 JWT segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenService(testSecret, time.Hour)
	verifier := NewTokenService([]byte("a-different-secret-entirely!!"), time.Hour)

	token, err := issuer.Issue(model.Principal{UserID: 3, Username: "carol"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("rotated secret should invalidate outstanding tokens, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"two_segments", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if _, err := svc.Verify(test.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenService_NonNumericSubject(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, time.Hour)

	// A principal with UserID 0 produces subject "0", which Verify rejects:
	// valid accounts always have positive IDs.
	token, err := svc.Issue(model.Principal{UserID: 0, Username: "ghost"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for non-positive subject, got %v", err)
	}
}
