package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ornik8/incident-sync/internal/core/domain"
)

// Context keys set by Auth.
const (
	CtxAccountID = "account_id"
	CtxUsername  = "username"
	CtxRole      = "role"
)

// SessionReader exposes the device session the token must belong to.
type SessionReader interface {
	Current(ctx context.Context) (*domain.Session, error)
}

// Claims carried by API tokens.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for the session. The account id is the subject.
func IssueToken(secret string, ttl time.Duration, s *domain.Session) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: s.Username,
		Role:     s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Auth validates the bearer token and checks it still belongs to the active
// device session, so a logout or a login by someone else revokes it.
func Auth(jwtSecret string, sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			var claims Claims
			tkn, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (any, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			current, err := sessions.Current(c.Request().Context())
			if errors.Is(err, domain.ErrNoSession) {
				return echo.NewHTTPError(http.StatusUnauthorized, "session ended")
			}
			if err != nil {
				return err
			}
			if current.AccountID != claims.Subject {
				return echo.NewHTTPError(http.StatusUnauthorized, "session ended")
			}

			c.Set(CtxAccountID, current.AccountID)
			c.Set(CtxUsername, current.Username)
			c.Set(CtxRole, current.Role)

			return next(c)
		}
	}
}
