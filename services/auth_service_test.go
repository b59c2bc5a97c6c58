package services

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/models"
	"github.com/shopswift/backend/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func newAuthFixture() AuthService {
	store := newMemStore()
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(&memUserRepo{store: store}, tokens)
}

func TestRegisterCreatesCustomer(t *testing.T) {
	svc := newAuthFixture()
	input := RegisterInput{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "correct horse battery",
	}

	user, token, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, input.Email, user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, input.Password, user.Password, "password must be stored hashed")
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthFixture()
	input := RegisterInput{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "correct horse battery",
	}

	_, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.From(err).Code)
}

// racingUserRepo simulates two registrations racing past the email pre-check:
// lookups never find the email, and the unique index rejects the second insert.
type racingUserRepo struct {
	memUserRepo
}

func (r *racingUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (r *racingUserRepo) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			r.store.mu.Unlock()
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{
				{Code: 11000, Message: "E11000 duplicate key error collection: shopswift.users index: email_1"},
			}}
		}
	}
	r.store.mu.Unlock()
	return r.memUserRepo.Create(ctx, user)
}

func TestRegisterRaceLoserGetsConflict(t *testing.T) {
	store := newMemStore()
	tokens := NewTokenService("test-secret", time.Hour)
	svc := NewAuthService(&racingUserRepo{memUserRepo{store: store}}, tokens)

	input := RegisterInput{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "correct horse battery",
	}

	_, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	// The pre-check missed, so only the index catches the duplicate.
	_, _, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.From(err).Code)
}

func TestLogin(t *testing.T) {
	svc := newAuthFixture()
	email := gofakeit.Email()
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     gofakeit.Name(),
		Email:    email,
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), LoginInput{Email: email, Password: "correct horse battery"})
	require.NoError(t, err)
	assert.Equal(t, email, user.Email)
	assert.NotEmpty(t, token)
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	svc := newAuthFixture()
	email := gofakeit.Email()
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     gofakeit.Name(),
		Email:    email,
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, _, badPassword := svc.Login(context.Background(), LoginInput{Email: email, Password: "wrong"})
	require.Error(t, badPassword)
	_, _, unknownEmail := svc.Login(context.Background(), LoginInput{Email: gofakeit.Email(), Password: "wrong"})
	require.Error(t, unknownEmail)

	// Both failures carry the same status and message, so callers cannot
	// probe which emails exist.
	assert.Equal(t, apperrors.From(badPassword).Message, apperrors.From(unknownEmail).Message)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.From(badPassword).Code)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.From(unknownEmail).Code)
}
