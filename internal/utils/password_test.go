package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	PasswordHashCost = bcrypt.MinCost

	hash, err := HashPassword("Secret#123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !CheckPasswordHash("Secret#123", hash) {
		t.Fatal("expected CheckPasswordHash to accept the original password")
	}
	if CheckPasswordHash("secret#123", hash) {
		t.Fatal("expected CheckPasswordHash to reject a different password")
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	cases := map[string]bool{
		"Ab1!":        false,
		"abcdef1!":    false,
		"ABCDEF1!":    false,
		"Abcdefg!":    false,
		"Abcdefg1":    false,
		"Abcdef1!":    true,
		"Farm@Care24": true,
	}
	for pw, ok := range cases {
		err := ValidatePasswordStrength(pw)
		if ok && err != nil {
			t.Errorf("%q: expected strong password, got %v", pw, err)
		}
		if !ok && err == nil {
			t.Errorf("%q: expected weak password to be rejected", pw)
		}
	}
}

func TestFieldValidators(t *testing.T) {
	if !IsValidMobile("9876543210") || IsValidMobile("1234567890") || IsValidMobile("98765") {
		t.Fatal("mobile validation mismatch")
	}
	if !IsValidEmail("farmer@example.in") || IsValidEmail("farmer@") {
		t.Fatal("email validation mismatch")
	}
	if IsFullName("Ramesh") || !IsFullName("Ramesh Kumar") {
		t.Fatal("full name validation mismatch")
	}
}

func TestHashTokenIsDeterministic(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatal("HashToken must be deterministic")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Fatal("HashToken must differ for different inputs")
	}
}
