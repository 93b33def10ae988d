package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"finhealth/internal/auth"
	apperrors "finhealth/internal/errors"
	"finhealth/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newTestTokens(t *testing.T) *auth.JWTService {
	t.Helper()
	tokens, err := auth.NewJWTService("test-secret")
	require.NoError(t, err)
	return tokens
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		userName      string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration normalizes email",
			userName: "Ann",
			email:    "Ann@Test.com ",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@test.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
					args.Get(1).(*model.User).ID = 1
				}).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "duplicate email caught by pre-check",
			userName: "Ann",
			email:    "existing@test.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@test.com").Return(&model.User{Email: "existing@test.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:     "duplicate email surfaced by unique index at write time",
			userName: "Ann",
			email:    "racer@test.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "racer@test.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := newTestTokens(t)
			svc := NewAuthService(mockRepo, tokens)

			token, user, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, "ann@test.com", user.Email)
				assert.Equal(t, tt.userName, user.Name)
				assert.Empty(t, user.PasswordHash)

				claims, err := tokens.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, user.ID, claims.UserID)
				assert.Equal(t, user.Email, claims.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcryptCost)
	require.NoError(t, err)

	stored := &model.User{
		ID:           7,
		Name:         "Ann",
		Email:        "ann@test.com",
		PasswordHash: string(hashed),
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "ann@test.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				cp := *stored
				m.On("FindByEmail", mock.Anything, "ann@test.com").Return(&cp, nil)
			},
			expectedError: nil,
		},
		{
			name:     "case and whitespace variants resolve the same user",
			email:    " ANN@Test.com ",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				cp := *stored
				m.On("FindByEmail", mock.Anything, "ann@test.com").Return(&cp, nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "nobody@test.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@test.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "ann@test.com",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				cp := *stored
				m.On("FindByEmail", mock.Anything, "ann@test.com").Return(&cp, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := newTestTokens(t)
			svc := NewAuthService(mockRepo, tokens)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				// unknown email and wrong password must be indistinguishable
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, "ann@test.com", user.Email)
				assert.Empty(t, user.PasswordHash)

				claims, err := tokens.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, uint(7), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
