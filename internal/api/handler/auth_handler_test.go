package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

const validRegistration = `{"username":"alice","email":"alice@example.com","password":"secret1","firstName":"Alice","lastName":"Doe","phone":"5551234567"}`

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Email != "alice@example.com" || in.Phone != "5551234567" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 3, Username: in.Username}, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/api/auth/register/customer", validRegistration, nil)
	if err := h.RegisterCustomer(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)
	if got := rec.Body.String(); got != "Customer registered successfully!" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	body := `{"username":"al","email":"not-an-email","password":"123","firstName":"","lastName":"Doe","phone":"12ab"}`
	c, _ := newContext(t, http.MethodPost, "/api/auth/register/customer", body, nil)

	ve := expectValidation(t, h.RegisterCustomer(c), "username", "email", "password", "firstName", "phone")
	if ve["firstName"] != "must not be blank" {
		t.Fatalf("unexpected firstName message %q", ve["firstName"])
	}
	if ve["username"] != "size must be at least 3" {
		t.Fatalf("unexpected username message %q", ve["username"])
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(t, http.MethodPost, "/api/auth/register/customer", validRegistration, nil)
	if err := h.RegisterCustomer(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zerolog.Nop())

	c, _ := newContext(t, http.MethodPost, "/api/auth/register/customer", `{"username":`, nil)
	expectHTTPError(t, h.RegisterCustomer(c), http.StatusBadRequest)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "secret1" {
				t.Fatalf("unexpected credentials %s/%s", username, password)
			}
			return &ports.LoginResult{
				Token: "jwt",
				User:  &domain.User{ID: 3, Username: "alice", Email: "alice@example.com", Roles: []string{domain.RoleCustomer}},
			}, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, rec := newContext(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret1"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var got domain.UserSession
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Token != "jwt" || got.Type != "Bearer" || got.ID != 3 || got.Username != "alice" || !got.IsCustomer() {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	c, _ := newContext(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"nope"}`, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zerolog.Nop())

	c, _ := newContext(t, http.MethodPost, "/api/auth/login", `{}`, nil)
	expectValidation(t, h.Login(c), "username", "password")
}
