package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

// AuthService implements registration, login and the admin seed.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) RegisterCustomer(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if err := s.ensureUnique(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:        in.Username,
		Email:           in.Email,
		PasswordHash:    string(hash),
		Roles:           []string{domain.RoleCustomer},
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Address:         in.Address,
		Phone:           in.Phone,
		ProfileImageURL: in.ProfileImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("customer registered")
	return created, nil
}

func (s *AuthService) ensureUnique(ctx context.Context, username, email string) error {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return domain.ErrUsernameTaken
	}
	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.ErrEmailTaken
	}
	return nil
}

// Login never tells apart an unknown user from a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleAdmin},
		FirstName:    "Station",
		LastName:     "Admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}
	s.log.Info().Str("username", username).Msg("admin account seeded")
	return true, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"roles":    user.Roles,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
