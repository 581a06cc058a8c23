package ports

import (
	"context"

	"github.com/carservice/station/internal/core/domain"
)

// UserRepository persists accounts. Create assigns the ID and reports a
// duplicate username or email with domain.ErrUsernameTaken / domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
}

// RegisterInput is a new customer account.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	FirstName       string
	LastName        string
	Address         string
	Phone           string
	ProfileImageURL string
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	RegisterCustomer(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// EnsureAdmin creates the admin account unless the username already exists.
	EnsureAdmin(ctx context.Context, username, email, password string) (created bool, err error)
}

// ProfileUpdate holds the fields a user may change. Empty strings leave a field untouched.
type ProfileUpdate struct {
	Username        string
	Email           string
	Password        string
	FirstName       string
	LastName        string
	Address         string
	Phone           string
	ProfileImageURL string
}

type UserService interface {
	Me(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*domain.User, error)
}
