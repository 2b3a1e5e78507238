package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/felipemaillo/finance-app/internal/models"
)

const (
	// MinSecretLength is the shortest accepted personal secret.
	MinSecretLength = 8

	// MaxSecretBytes is bcrypt's input limit. It counts bytes, not runes.
	MaxSecretBytes = 72
)

var (
	ErrInvalidCredentials = errors.New("invalid email or secret")
	ErrWeakSecret         = fmt.Errorf("secret must be at least %d characters", MinSecretLength)
	ErrSecretTooLong      = fmt.Errorf("secret must be at most %d bytes", MaxSecretBytes)
)

// ValidateSecret checks a personal secret before it is hashed.
func ValidateSecret(secret string) error {
	if utf8.RuneCountInString(secret) < MinSecretLength {
		return ErrWeakSecret
	}
	if len(secret) > MaxSecretBytes {
		return ErrSecretTooLong
	}
	return nil
}

// UserStorage defines the user lookups the authenticator needs.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// HashSecret hashes a personal or family shared secret with bcrypt.
func HashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}

// CompareSecret reports whether secret matches the bcrypt hash.
func CompareSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// PasswordAuthenticator implements secret-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
}

// NewPasswordAuthenticator creates a new secret-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
	}
}

// Authenticate verifies the email and secret, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}

	if !CompareSecret(user.SecretHash, credential) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
