package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/request-tracker/backend/internal/auth"
	"github.com/request-tracker/backend/internal/models"
	"github.com/request-tracker/backend/internal/service/servicetest"
)

func newAuthService() (*AuthService, *servicetest.Store) {
	store := servicetest.NewStore()
	return &AuthService{
		Users:  store,
		Tokens: store,
		Hasher: auth.NewBcryptHasher(4),
		Issuer: auth.NewJWTService("test-secret", time.Minute, time.Hour),
	}, store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: " Alice@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.RoleClient, u.Role)

	res, err := svc.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.Equal(t, "Alice", res.User.Name)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateAndWeak(t *testing.T) {
	svc, store := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterInput{Name: "C", Email: "c@example.com", Password: "123"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRefreshAndLogout(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, "a@example.com", "secret1")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = svc.Refresh(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, res.Tokens.RefreshToken))
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, svc.Logout(ctx, res.Tokens.RefreshToken), ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	actor := Actor{UserID: u.ID, Email: u.Email, Role: u.Role}

	assert.ErrorIs(t, svc.ChangePassword(ctx, actor, "wrong", "Str0ng!Pass"), ErrPasswordMismatch)

	var verr *ValidationError
	assert.ErrorAs(t, svc.ChangePassword(ctx, actor, "secret1", "weak"), &verr)

	require.NoError(t, svc.ChangePassword(ctx, actor, "secret1", "Str0ng!Pass"))
	_, err = svc.Login(ctx, "a@example.com", "Str0ng!Pass")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "a@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"Str0ng!Pass", true},
		{"Aa1@aaaa", true},
		{"Aa1@aaa", false},
		{"str0ng!pass", false},
		{"STR0NG!PASS", false},
		{"Strong!Pass", false},
		{"Str0ngPass", false},
		{"Str0ng!Pass#", false},
		{"Str0ng Pass!", false},
		{"Str0ng!Pässe", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := CheckPasswordPolicy(tt.password)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUpdateMeEmailConflict(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()
	a, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "b@example.com", Password: "secret1"})
	require.NoError(t, err)
	actor := Actor{UserID: a.ID, Role: a.Role}

	failed, err := svc.UpdateMe(ctx, actor, ProfileUpdate{Email: strPtr("B@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, models.User{}, failed)

	me, err := svc.UpdateMe(ctx, actor, ProfileUpdate{Name: strPtr("Alice")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Name)
	assert.Equal(t, "a@example.com", me.Email)
}

func TestUserServiceAdminCRUD(t *testing.T) {
	store := servicetest.NewStore()
	svc := &UserService{Users: store, Hasher: auth.NewBcryptHasher(4)}
	ctx := context.Background()

	_, err := svc.Create(ctx, UserInput{Name: "X", Email: "x@example.com", Password: "secret1", Role: "owner"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)

	u, err := svc.Create(ctx, UserInput{Name: "X", Email: "x@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, u.Role)

	_, err = svc.Create(ctx, UserInput{Name: "Y", Email: "y@example.com", Password: "secret1"})
	require.NoError(t, err)
	failed, err := svc.Update(ctx, u.ID, UserUpdate{Email: strPtr("y@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, models.User{}, failed)

	updated, err := svc.Update(ctx, u.ID, UserUpdate{Role: strPtr(models.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), ErrNotFound)
}
