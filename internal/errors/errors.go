package errors

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"

	"finhealth/internal/respond"
)

var (
	// ErrValidation is returned when request input is missing or malformed.
	ErrValidation = errors.New("invalid request")
	// ErrDuplicateEmail is returned when the normalized email is already registered.
	ErrDuplicateEmail = errors.New("email is already registered")
	// ErrInvalidCredentials is returned for a failed login. The message never
	// reveals whether the email exists or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned for missing, malformed, expired or otherwise
	// invalid bearer tokens. One message for every cause.
	ErrUnauthorized = errors.New("authentication failed, please log in again")
	// ErrNotFound is returned when a record does not exist or is not owned by
	// the caller.
	ErrNotFound = errors.New("record not found")
	// ErrStorageUnavailable is returned when the database cannot be reached.
	// Clients may retry later.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable, please retry later")
)

// FromStorage wraps a persistence failure, promoting connectivity and
// timeout errors to ErrStorageUnavailable so they map to 503 instead of 500.
func FromStorage(op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.As(err, &netErr):
		return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// Classify maps an error to an HTTP status and a client-safe message.
func Classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return he.Code, msg
	}

	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, ErrValidation.Error()
	case errors.Is(err, ErrDuplicateEmail):
		return http.StatusConflict, ErrDuplicateEmail.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrInvalidCredentials.Error()
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, ErrUnauthorized.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrNotFound.Error()
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable, ErrStorageUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// NewHTTPErrorHandler builds the central echo error handler. Every failure
// path produces the {success:false, message} envelope; internal detail is
// appended only in development and is otherwise logged server-side.
func NewHTTPErrorHandler(dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := Classify(err)
		if status >= http.StatusInternalServerError {
			c.Logger().Error(err)
			if dev {
				message = fmt.Sprintf("%s: %v", message, err)
			}
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(status); err != nil {
				c.Logger().Error(err)
			}
			return
		}
		if err := c.JSON(status, respond.Envelope{Success: false, Message: message}); err != nil {
			c.Logger().Error(err)
		}
	}
}

// Validation wraps a field-level problem so it classifies as a 400 while
// keeping the specific hint in the client message.
func Validation(hint string) error {
	return echo.NewHTTPError(http.StatusBadRequest, hint)
}
