package auth

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "finhealth/internal/errors"
	"finhealth/internal/model"
)

// userContextKey is where the gateway stores the resolved user.
const userContextKey = "user"

// UserResolver resolves a token subject to a stored user record.
type UserResolver interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Middleware builds the request gateway for protected routes. It extracts
// the bearer token, verifies it, resolves the subject against the store
// and attaches the user (password hash stripped) to the request context.
// Missing or malformed headers, bad signatures, expired tokens and
// unresolvable subjects all produce the same 401 response.
func Middleware(tokens *JWTService, users UserResolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: userContextKey,
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := tokens.Verify(tokenString)
			if err != nil {
				return nil, err
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				// An unreachable store must read as retryable, not as a
				// prompt to re-authenticate.
				if storeErr := apperrors.FromStorage("resolve user", err); errors.Is(storeErr, apperrors.ErrStorageUnavailable) {
					return nil, storeErr
				}
				// subject no longer resolves to an existing user
				return nil, ErrTokenInvalid
			}

			user.PasswordHash = ""
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, apperrors.ErrStorageUnavailable) {
				return err
			}
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrUnauthorized.Error())
		},
	})
}

// CurrentUser returns the user attached by Middleware.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}
