// internals/features/users/auth/service/auth_service.go
package service

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"educa_backend/internals/constants"
)

var (
	ErrInvalidCredentials = errors.New("usuário ou senha incorretos")
	ErrAuthDisabled       = errors.New("login administrativo não configurado")
)

// AdminAccount is the single administrative account configured for the portal.
type AdminAccount struct {
	UserName     string
	Password     string // plain fallback, dev only
	PasswordHash string // bcrypt
}

type AuthService struct {
	Account AdminAccount
	Secret  string
	TTL     time.Duration
	Now     func() time.Time
}

func NewAuthService(acc AdminAccount, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{Account: acc, Secret: secret, TTL: ttl, Now: time.Now}
}

type TokenResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Role        string    `json:"role"`
	UserName    string    `json:"user_name"`
}

// Login checks the credentials and issues an admin token.
func (s *AuthService) Login(userName, password string) (TokenResult, error) {
	if s.Secret == "" || (s.Account.Password == "" && s.Account.PasswordHash == "") {
		return TokenResult{}, ErrAuthDisabled
	}
	if !s.checkCredentials(strings.TrimSpace(userName), password) {
		return TokenResult{}, ErrInvalidCredentials
	}
	return s.IssueToken(s.Account.UserName, constants.RoleAdmin)
}

func (s *AuthService) checkCredentials(userName, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(userName), []byte(s.Account.UserName)) == 1

	var passOK bool
	if s.Account.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.Account.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.Account.Password)) == 1
	}
	return userOK && passOK
}

func (s *AuthService) IssueToken(userName, role string) (TokenResult, error) {
	now := s.Now().UTC()
	exp := now.Add(s.TTL)
	claims := jwt.MapClaims{
		"user_name": userName,
		"role":      role,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return TokenResult{}, err
	}
	return TokenResult{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		Role:        role,
		UserName:    userName,
	}, nil
}
