package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipemaillo/finance-app/internal/models"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f[email]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func TestSecrets(t *testing.T) {
	hash, err := HashSecret("family-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "family-secret", hash)
	assert.True(t, CompareSecret(hash, "family-secret"))
	assert.False(t, CompareSecret(hash, "wrong"))
	assert.False(t, CompareSecret("", "anything"))
}

func TestPasswordAuthenticator(t *testing.T) {
	hash, err := HashSecret("correct horse")
	require.NoError(t, err)

	user := &models.User{ID: "u1", Email: "ana@example.com", SecretHash: hash, FamilyID: "f1"}
	a := NewPasswordAuthenticator(fakeUsers{user.Email: user})
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "ana@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "ana@example.com", "wrong horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "bob@example.com", "correct horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

}

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   error
	}{
		{"too short", "short", ErrWeakSecret},
		{"minimum", "12345678", nil},
		{"multibyte counts runes for the minimum", strings.Repeat("é", 8), nil},
		{"exactly 72 bytes", strings.Repeat("a", 72), nil},
		{"73 bytes", strings.Repeat("a", 73), ErrSecretTooLong},
		{"40 runes over 72 bytes", strings.Repeat("é", 40), ErrSecretTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecret(tt.secret)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret-key", time.Hour)
	user := &models.User{ID: "u1", Email: "ana@example.com", FamilyID: "f1", IsPrivileged: true}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u1", FamilyID: "f1", Privileged: true}, claims.Identity())
	assert.Equal(t, "ana@example.com", claims.Email)

	t.Run("wrong key", func(t *testing.T) {
		_, err := NewJWTManager("other-key", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := NewJWTManager("test-secret-key", -time.Minute).Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIdentity(t *testing.T) {
	id := IdentityOf(&models.User{ID: "u1", FamilyID: "f1"})
	assert.True(t, id.InFamily("f1"))
	assert.False(t, id.InFamily("f2"))
	assert.False(t, id.CanAdministerFamilies())
	assert.False(t, Identity{}.InFamily(""))
}
