package services

import (
	"context"
	"errors"

	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/models"
	"github.com/shopswift/backend/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, input LoginInput) (*models.User, string, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenService
}

func NewAuthService(users repository.UserRepository, tokens TokenService) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	_, err := s.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, "", apperrors.Conflict("User with this email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperrors.Database("Failed to register user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	user := &models.User{
		Email:    input.Email,
		Password: string(hashed),
		Name:     input.Name,
		Role:     models.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The email pre-check races with concurrent registrations; the unique
		// index is the arbiter, so its rejection is a conflict too.
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", apperrors.Conflict("User with this email already exists")
		}
		return nil, "", apperrors.Database("Failed to register user", err)
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same message as a bad password so lookups can't probe for accounts.
			return nil, "", apperrors.Unauthorized("Invalid email or password")
		}
		return nil, "", apperrors.Database("Failed to login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, "", apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}
