package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/carservice/station/internal/core/ports"
)

const principalKey = "principal"

// Auth validates the bearer JWT and stores the caller as a ports.Principal.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Full authentication is required to access this resource")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			p, ok := principalFromClaims(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing identity")
			}
			c.Set(principalKey, p)

			return next(c)
		}
	}
}

func principalFromClaims(claims jwt.MapClaims) (ports.Principal, bool) {
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return ports.Principal{}, false
	}
	username, _ := claims["username"].(string)

	var roles []string
	raw, _ := claims["roles"].([]interface{})
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return ports.Principal{UserID: id, Username: username, Roles: roles}, true
}

// PrincipalFrom returns the caller stored by Auth.
func PrincipalFrom(c echo.Context) (ports.Principal, bool) {
	p, ok := c.Get(principalKey).(ports.Principal)
	return p, ok
}

// WithPrincipal stores p as the caller; used by tests and internal routes.
func WithPrincipal(c echo.Context, p ports.Principal) {
	c.Set(principalKey, p)
}
