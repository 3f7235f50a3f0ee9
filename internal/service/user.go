package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"tutorialapi/internal/model"
	"tutorialapi/internal/repository"
)

var ErrUsernameRequired = errors.New("username is required")

// UserService registers users.
type UserService interface {
	// Save hashes the password of in and stores the result.
	Save(ctx context.Context, in model.UserIn) (*model.UserInDB, error)
}

// PasswordHasher turns a plain password into its stored form.
type PasswordHasher func(password string) string

// FakeHasher is a stand-in for a real password hash.
func FakeHasher(password string) string {
	return "supersecret" + password
}

type userService struct {
	repo repository.UserRepository
	hash PasswordHasher
}

// NewUserService constructs a UserService. A nil hasher means FakeHasher.
func NewUserService(repo repository.UserRepository, hash PasswordHasher) UserService {
	if hash == nil {
		hash = FakeHasher
	}
	return &userService{repo: repo, hash: hash}
}

func (s *userService) Save(ctx context.Context, in model.UserIn) (*model.UserInDB, error) {
	if in.Username == "" {
		return nil, ErrUsernameRequired
	}
	u := model.UserInDB{
		Username:       in.Username,
		HashedPassword: s.hash(in.Password),
		Email:          in.Email,
		FullName:       in.FullName,
	}
	if err := s.repo.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	zerolog.Ctx(ctx).Info().Str("username", u.Username).Msg("user saved")
	return &u, nil
}
