package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"educa_backend/internals/constants"
)

func TestLogin_PlainPassword(t *testing.T) {
	s := NewAuthService(AdminAccount{UserName: "admin", Password: "1234"}, "secret", time.Hour)

	tok, err := s.Login(" admin ", "1234")
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, tok.Role)
	assert.Equal(t, "Bearer", tok.TokenType)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tok.AccessToken, claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, claims["role"])
	assert.Equal(t, "admin", claims["user_name"])

	_, err = s.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login("root", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nha"), bcrypt.MinCost)
	require.NoError(t, err)

	s := NewAuthService(AdminAccount{UserName: "admin", PasswordHash: string(hash), Password: "ignored"}, "secret", time.Hour)
	_, err = s.Login("admin", "s3nha")
	require.NoError(t, err)

	_, err = s.Login("admin", "ignored")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Disabled(t *testing.T) {
	_, err := NewAuthService(AdminAccount{UserName: "admin", Password: "x"}, "", time.Hour).Login("admin", "x")
	assert.ErrorIs(t, err, ErrAuthDisabled)

	_, err = NewAuthService(AdminAccount{UserName: "admin"}, "secret", time.Hour).Login("admin", "")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}

func TestIssueToken_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewAuthService(AdminAccount{}, "secret", 0)
	s.Now = func() time.Time { return now }

	tok, err := s.IssueToken("admin", constants.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, now.Add(12*time.Hour), tok.ExpiresAt)
}
