package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies the non-empty fields of in.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		taken, err := s.users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
		user.Username = in.Username
	}
	if in.Email != "" && in.Email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
		user.Email = in.Email
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	setIfNotEmpty(&user.FirstName, in.FirstName)
	setIfNotEmpty(&user.LastName, in.LastName)
	setIfNotEmpty(&user.Address, in.Address)
	setIfNotEmpty(&user.Phone, in.Phone)
	setIfNotEmpty(&user.ProfileImageURL, in.ProfileImageURL)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", user.ID).Msg("profile updated")
	return user, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
