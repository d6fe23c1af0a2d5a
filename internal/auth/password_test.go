package auth

import (
	"errors"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := ValidatePassword("long enough"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatalf("expected hash, got plaintext")
	}
	if !ComparePassword(hash, "correct horse battery") {
		t.Fatalf("expected matching password to verify")
	}
	if ComparePassword(hash, "wrong password") {
		t.Fatalf("expected mismatched password to fail")
	}
}
