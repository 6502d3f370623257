package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"eventease/internal/errors"
	"eventease/internal/model"
	"eventease/internal/repository"

	"github.com/google/uuid"
)

const identityContextKey = "identity"

// Identity is the resolved caller attached to a request. A nil *Identity
// means the request is anonymous.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   model.Role
}

// OptionalJWT parses a bearer token if present. Missing or invalid tokens
// never fail the request; downstream middleware sees no claims and treats
// the caller as anonymous.
func OptionalJWT(jwtService *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return jwtService.ValidateToken(auth)
		},
	})
}

// ResolveIdentity turns validated claims into an Identity. The user record is
// re-fetched so role changes after token issuance take effect immediately.
// Resolution failures degrade to anonymous; they never error past here.
func ResolveIdentity(tokenStore TokenStoreInterface, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*Claims)
			if !ok || claims == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			if revoked, _ := tokenStore.IsRevoked(ctx, claims.ID); revoked {
				return next(c)
			}

			user, err := users.FindByID(ctx, claims.UserID)
			if err != nil {
				return next(c)
			}

			c.Set(identityContextKey, &Identity{
				UserID: user.ID,
				Email:  user.Email,
				Role:   user.Role,
			})
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "unauthorized",
					Code:  "UNAUTHORIZED",
				})
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the resolved identity for the request, or nil for
// anonymous callers.
func IdentityFrom(c echo.Context) *Identity {
	id, _ := c.Get(identityContextKey).(*Identity)
	return id
}

// ClaimsFrom returns the validated token claims, or nil when the request
// carried no usable token. Sign-out needs the JTI and expiry for revocation.
func ClaimsFrom(c echo.Context) *Claims {
	claims, _ := c.Get("user").(*Claims)
	return claims
}
