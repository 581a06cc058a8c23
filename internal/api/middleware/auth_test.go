package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "12",
		"username": "alice",
		"roles":    []string{domain.RoleAdmin},
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, *ports.Principal, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *ports.Principal
	err := Auth("secret")(func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if ok {
			got = &p
		}
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, got, err
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims())

	rec, p, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if p == nil || p.UserID != 12 || p.Username != "alice" || !p.IsAdmin() {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, p, err := runAuth(t, "")
	expectStatus(t, err, http.StatusUnauthorized)
	if p != nil {
		t.Fatalf("next must not run")
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noExp := validClaims()
	delete(noExp, "exp")

	noSub := validClaims()
	delete(noSub, "sub")

	cases := map[string]string{
		"wrong scheme":  "Basic " + sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims()),
		"wrong secret":  "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims()),
		"wrong method":  "Bearer " + sign(t, jwt.SigningMethodHS512, []byte("secret"), validClaims()),
		"expired":       "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), expired),
		"no expiry":     "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), noExp),
		"no subject":    "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), noSub),
		"garbage":       "Bearer not-a-jwt",
		"missing token": "Bearer",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, p, err := runAuth(t, header)
			expectStatus(t, err, http.StatusUnauthorized)
			if p != nil {
				t.Fatalf("next must not run")
			}
		})
	}
}
