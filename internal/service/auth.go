package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/erazemk/assetinv/internal/auth"
	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/store"
)

// LoginUser is the identity returned alongside a token.
type LoginUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// AuthService exchanges credentials for signed tokens.
type AuthService struct {
	db     *sql.DB
	hasher auth.PasswordHasher
	secret string
	now    func() time.Time
}

// NewAuthService returns an AuthService signing tokens with secret.
func NewAuthService(db *sql.DB, hasher auth.PasswordHasher, secret string) *AuthService {
	return &AuthService{db: db, hasher: hasher, secret: secret, now: time.Now}
}

// Authenticate verifies email and password and issues a token valid for
// auth.TokenExpiry.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, model.Errorf(model.ErrValidation, "Email and password are required")
	}

	a, err := store.GetAccountByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		slog.Warn("login failed: unknown email", "email", email)
		return nil, model.Errorf(model.ErrInvalidCredentials, "Invalid credentials")
	}

	ok, err := s.hasher.Verify(a.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Warn("login failed: wrong password", "email", email)
		return nil, model.Errorf(model.ErrInvalidCredentials, "Invalid credentials")
	}

	token, err := auth.GenerateToken(s.secret, a.ID, a.Email, a.Username, s.now())
	if err != nil {
		return nil, err
	}

	slog.Info("login", "account_id", a.ID)
	return &LoginResult{
		Token: token,
		User:  LoginUser{ID: a.ID, Email: a.Email, Username: a.Username, Role: a.Role},
	}, nil
}
