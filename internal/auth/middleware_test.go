package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "finhealth/internal/errors"
	"finhealth/internal/model"
)

type stubResolver struct {
	users map[uint]*model.User
}

type failingResolver struct {
	err error
}

func (f failingResolver) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return nil, f.err
}

func (s stubResolver) FindByID(ctx context.Context, id uint) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, errors.New("not found")
}

func newTestServer(t *testing.T, tokens *JWTService, resolver UserResolver) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apperrors.NewHTTPErrorHandler(false)

	g := e.Group("/api", Middleware(tokens, resolver))
	g.GET("/me", func(c echo.Context) error {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, user)
	})
	return e
}

func TestMiddleware_ValidToken(t *testing.T) {
	tokens, err := NewJWTService("test-secret")
	require.NoError(t, err)

	resolver := stubResolver{users: map[uint]*model.User{
		7: {ID: 7, Name: "Ann", Email: "ann@test.com", PasswordHash: "hash"},
	}}
	e := newTestServer(t, tokens, resolver)

	token, err := tokens.Issue(7, "ann@test.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"ann@test.com"`)
	// hash stripped before the user reaches the handler
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestMiddleware_RejectsUniformly(t *testing.T) {
	tokens, err := NewJWTService("test-secret")
	require.NoError(t, err)

	resolver := stubResolver{users: map[uint]*model.User{
		7: {ID: 7, Email: "ann@test.com"},
	}}
	e := newTestServer(t, tokens, resolver)

	valid, err := tokens.Issue(7, "ann@test.com")
	require.NoError(t, err)
	orphan, err := tokens.Issue(99, "gone@test.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "malformed header", header: "Token abc"},
		{name: "garbage token", header: "Bearer not-a-token"},
		{name: "tampered token", header: "Bearer " + tamperSignature(valid)},
		{name: "unknown subject", header: "Bearer " + orphan},
	}

	var firstBody string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			// every rejection reads the same to the client
			if firstBody == "" {
				firstBody = rec.Body.String()
			} else {
				assert.Equal(t, firstBody, rec.Body.String())
			}
		})
	}
}

func TestMiddleware_StorageOutageIsRetryable(t *testing.T) {
	tokens, err := NewJWTService("test-secret")
	require.NoError(t, err)

	e := newTestServer(t, tokens, failingResolver{err: context.DeadlineExceeded})

	token, err := tokens.Issue(7, "ann@test.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// a dead store with a valid token is a 503, not a re-login prompt
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "retry")
}
