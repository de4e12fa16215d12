package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/request-tracker/backend/internal/auth"
	"github.com/request-tracker/backend/internal/db"
	"github.com/request-tracker/backend/internal/models"
)

const (
	minRegisterPasswordLen = 6
	minPolicyPasswordLen   = 8
	passwordSymbols        = "@$!%*?&"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

type TokenIssuer interface {
	Generate(u models.User) (*auth.TokenPair, error)
	AccessFromRefresh(refresh *auth.Claims) (string, error)
	Verify(token string, want auth.TokenType) (*auth.Claims, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginResult struct {
	Tokens *auth.TokenPair
	User   models.User
}

type ProfileUpdate struct {
	Name  *string
	Email *string
}

type AuthService struct {
	Users  UserRepository
	Tokens TokenRepository
	Hasher PasswordHasher
	Issuer TokenIssuer
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if len(in.Password) < minRegisterPasswordLen {
		return models.User{}, &ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minRegisterPasswordLen)}
	}
	return createUser(ctx, s.Users, s.Hasher, strings.TrimSpace(in.Name), in.Email, in.Password, models.RoleClient)
}

func createUser(ctx context.Context, users UserRepository, hasher PasswordHasher, name, email, password, role string) (models.User, error) {
	hash, err := hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		Email:        normalizeEmail(email),
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	}
	if err := users.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.Users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	pair, err := s.Issuer.Generate(u)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Tokens: pair, User: u}, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return s.Issuer.AccessFromRefresh(claims)
}

// Logout revokes a refresh token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.Tokens.RevokeToken(ctx, claims.ID, expiresAt)
}

func (s *AuthService) verifyRefresh(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.Issuer.Verify(token, auth.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	revoked, err := s.Tokens.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, current, next string) error {
	u, err := s.Users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return mapStoreErr(err)
	}
	if err := s.Hasher.Verify(current, u.PasswordHash); err != nil {
		return ErrPasswordMismatch
	}
	if err := CheckPasswordPolicy(next); err != nil {
		return err
	}
	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return err
	}
	return mapStoreErr(s.Users.UpdatePassword(ctx, u.ID, hash))
}

// CheckPasswordPolicy enforces the strong password rule used on password change.
func CheckPasswordPolicy(password string) error {
	fail := func(msg string) error {
		return &ValidationError{Field: "newPassword", Message: msg}
	}
	if len(password) < minPolicyPasswordLen {
		return fail(fmt.Sprintf("must be at least %d characters", minPolicyPasswordLen))
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return fail("may only contain letters, digits and " + passwordSymbols)
		}
	}
	if !upper || !lower || !digit || !symbol {
		return fail("must contain an uppercase letter, a lowercase letter, a digit and a symbol from " + passwordSymbols)
	}
	return nil
}

func (s *AuthService) GetMe(ctx context.Context, actor Actor) (models.User, error) {
	u, err := s.Users.GetUserByID(ctx, actor.UserID)
	return u, mapStoreErr(err)
}

func (s *AuthService) UpdateMe(ctx context.Context, actor Actor, in ProfileUpdate) (models.User, error) {
	u, err := s.Users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return models.User{}, mapStoreErr(err)
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = normalizeEmail(*in.Email)
	}
	if err := saveUser(ctx, s.Users, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func saveUser(ctx context.Context, users UserRepository, u models.User) error {
	err := users.UpdateUser(ctx, u)
	if errors.Is(err, db.ErrConflict) {
		return ErrEmailTaken
	}
	return mapStoreErr(err)
}
