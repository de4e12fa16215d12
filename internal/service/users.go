package service

import (
	"context"
	"strings"

	"github.com/request-tracker/backend/internal/models"
)

type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UserUpdate struct {
	Name  *string
	Email *string
	Role  *string
}

// UserService is the admin user directory.
type UserService struct {
	Users  UserRepository
	Hasher PasswordHasher
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleClient
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Users.ListUsers(ctx)
}

func (s *UserService) Create(ctx context.Context, in UserInput) (models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleClient
	}
	if !validRole(in.Role) {
		return models.User{}, &ValidationError{Field: "role", Message: "must be admin or client"}
	}
	if len(in.Password) < minRegisterPasswordLen {
		return models.User{}, &ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}
	return createUser(ctx, s.Users, s.Hasher, strings.TrimSpace(in.Name), in.Email, in.Password, in.Role)
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := s.Users.GetUserByID(ctx, id)
	return u, mapStoreErr(err)
}

func (s *UserService) Update(ctx context.Context, id int64, in UserUpdate) (models.User, error) {
	u, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, mapStoreErr(err)
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = normalizeEmail(*in.Email)
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return models.User{}, &ValidationError{Field: "role", Message: "must be admin or client"}
		}
		u.Role = *in.Role
	}
	if err := saveUser(ctx, s.Users, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return mapStoreErr(s.Users.DeleteUser(ctx, id))
}
