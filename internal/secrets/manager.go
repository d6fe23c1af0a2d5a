package secrets

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
)

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*-_"

const (
	// MinPasswordLength and MaxPasswordLength bound generated passwords
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// ErrUnavailable is returned when the secrets backend rejects or cannot
// serve a request.
var ErrUnavailable = errors.New("secrets service unavailable")

// Secret is the credential material handed to the secrets backend. Values
// are write-only from this service's point of view and must never be logged.
type Secret struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	URI      string `json:"uri,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Manager stores credential secrets out of process and returns opaque IDs
type Manager interface {
	CreateSecret(ctx context.Context, secret *Secret) (string, error)
	GeneratePassword(length int) (string, error)
}

// GeneratePassword returns a random password of the given length, clamped
// to [MinPasswordLength, MaxPasswordLength].
func GeneratePassword(length int) (string, error) {
	if length < MinPasswordLength {
		length = MinPasswordLength
	}
	if length > MaxPasswordLength {
		length = MaxPasswordLength
	}

	password := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		password[i] = passwordCharset[n.Int64()]
	}

	return string(password), nil
}
