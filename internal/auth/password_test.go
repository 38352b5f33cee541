package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	passwords := []string{
		"hunter2",
		"correct horse battery staple",
		"p@ssw0rd-with-symbols!#%",
		"日本語パスワード",
	}

	for _, password := range passwords {
		hash, err := HashPassword(password, 4)
		if err != nil {
			t.Fatalf("HashPassword(%q) failed: %v", password, err)
		}

		match, err := VerifyPassword(password, hash)
		if err != nil {
			t.Fatalf("VerifyPassword failed: %v", err)
		}
		if !match {
			t.Errorf("password %q should verify against its own hash", password)
		}
	}
}

func TestHashPassword_CostFactors(t *testing.T) {
	t.Parallel()

	password := "the_same_password_12345"

	for _, cost := range []int{4, 6, 10} {
		hash, err := HashPassword(password, cost)
		if err != nil {
			t.Fatalf("HashPassword at cost %d failed: %v", cost, err)
		}

		match, err := VerifyPassword(password, hash)
		if err != nil {
			t.Fatalf("VerifyPassword at cost %d failed: %v", cost, err)
		}
		if !match {
			t.Errorf("hash at cost %d should verify", cost)
		}
	}
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret", 99)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// bcrypt encodes the cost in the hash prefix: $2a$10$...
	if !strings.Contains(hash, "$10$") {
		t.Errorf("out-of-range cost should fall back to %d, got hash %q", DefaultBcryptCost, hash)
	}
}

func TestHashPassword_Uniqueness(t *testing.T) {
	t.Parallel()

	password := "same password, two hashes"

	hash1, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	hash2, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// Different salts must produce different hashes
	if hash1 == hash2 {
		t.Error("same password should produce different hashes due to random salt")
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("right password", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	match, err := VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned unexpected error: %v", err)
	}
	if match {
		t.Error("wrong password should not verify")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-bcrypt-hash"},
		{"truncated", "$2a$10$short"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			match, err := VerifyPassword("anything", test.hash)
			if err == nil {
				t.Error("malformed hash should return an error")
			}
			if match {
				t.Error("malformed hash should never verify")
			}
		})
	}
}
