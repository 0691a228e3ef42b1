package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
)

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RegisterUser(ctx context.Context, email, password, firstName, lastName, role string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, domain.Validation("email is required")
	}
	if len(password) < 8 {
		return nil, domain.Validation("password must be at least 8 characters")
	}

	switch role {
	case "":
		role = domain.RoleMember
	case domain.RoleAdmin, domain.RoleStaff, domain.RoleMember:
	default:
		return nil, domain.Validation("invalid role: %s (allowed: ADMIN, STAFF, MEMBER)", role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Status:       StatusInactive,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "duplicate") {
			return nil, domain.Validation("email %s is already registered", email)
		}
		return nil, domain.Persistence(err)
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user")
		}
		return nil, err
	}
	return u, nil
}
