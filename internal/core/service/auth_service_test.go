package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

func registerInput(username, email string) ports.RegisterInput {
	return ports.RegisterInput{
		Username:  username,
		Email:     email,
		Password:  "pass123",
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "5551234567",
	}
}

func TestAuthService_RegisterCustomer_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	user, err := svc.RegisterCustomer(context.Background(), registerInput("jane", "jane@example.com"))
	if err != nil {
		t.Fatalf("RegisterCustomer returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !user.HasRole(domain.RoleCustomer) || user.HasRole(domain.RoleAdmin) {
		t.Fatalf("unexpected roles: %v", user.Roles)
	}
}

func TestAuthService_RegisterCustomer_Duplicates(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.RegisterCustomer(ctx, registerInput("jane", "jane@example.com")); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := svc.RegisterCustomer(ctx, registerInput("jane", "other@example.com"))
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if err.Error() != "Error: Username is already taken!" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	_, err = svc.RegisterCustomer(ctx, registerInput("john", "jane@example.com"))
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
	ctx := context.Background()
	if _, err := svc.RegisterCustomer(ctx, registerInput("jane", "jane@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.Login(ctx, "jane", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !tkn.Valid {
		t.Fatalf("token did not validate: %v", err)
	}
	if claims["username"] != "jane" || claims["sub"] != "1" {
		t.Fatalf("unexpected claims: %v", claims)
	}
	roles, _ := claims["roles"].([]interface{})
	if len(roles) != 1 || roles[0] != domain.RoleCustomer {
		t.Fatalf("unexpected roles claim: %v", claims["roles"])
	}
	exp, _ := claims.GetExpirationTime()
	if exp == nil || time.Until(exp.Time) > time.Hour || time.Until(exp.Time) < 59*time.Minute {
		t.Fatalf("unexpected expiry: %v", exp)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
	ctx := context.Background()
	if _, err := svc.RegisterCustomer(ctx, registerInput("jane", "jane@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct{ username, password string }{
		{"jane", "wrong"},
		{"nobody", "pass123"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(ctx, tc.username, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("Login(%q,%q): expected ErrInvalidCredentials, got %v", tc.username, tc.password, err)
		}
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "root", "root@example.com", "rootpass")
	if err != nil || !created {
		t.Fatalf("expected admin to be created, got created=%v err=%v", created, err)
	}
	created, err = svc.EnsureAdmin(ctx, "root", "root@example.com", "rootpass")
	if err != nil || created {
		t.Fatalf("expected second seed to be a no-op, got created=%v err=%v", created, err)
	}

	res, err := svc.Login(ctx, "root", "rootpass")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if !res.User.HasRole(domain.RoleAdmin) {
		t.Fatalf("expected admin role, got %v", res.User.Roles)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	auth := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
	users := NewUserService(repo, zerolog.Nop())
	ctx := context.Background()

	jane, _ := auth.RegisterCustomer(ctx, registerInput("jane", "jane@example.com"))
	if _, err := auth.RegisterCustomer(ctx, registerInput("john", "john@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := users.UpdateProfile(ctx, jane.ID, ports.ProfileUpdate{Username: "john"}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := users.UpdateProfile(ctx, jane.ID, ports.ProfileUpdate{Email: "john@example.com"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	updated, err := users.UpdateProfile(ctx, jane.ID, ports.ProfileUpdate{FirstName: "Janet", Password: "newpass"})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.FirstName != "Janet" || updated.LastName != "Doe" || updated.Phone != "5551234567" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if _, err := auth.Login(ctx, "jane", "newpass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := auth.Login(ctx, "jane", "pass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still works")
	}
}
