package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

const testSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password and assigns donor role", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, testSecret, time.Hour)

		userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*model.User)
				assert.Equal(t, model.RoleDonor, u.Role)
				assert.NotEqual(t, "hunter2pass", u.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2pass")))
			}).
			Return(&model.User{ID: 1, Email: "jane@example.com", Role: model.RoleDonor}, nil)

		user, err := service.Register(ctx, model.RegisterRequest{
			Name:     "Jane",
			Email:    "jane@example.com",
			Password: "hunter2pass",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("short password rejected", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, testSecret, time.Hour)

		_, err := service.Register(ctx, model.RegisterRequest{
			Name:     "Jane",
			Email:    "jane@example.com",
			Password: "short",
		})
		assert.Error(t, err)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, testSecret, time.Hour)

		userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).
			Return(nil, repository.ErrEmailExists)

		_, err := service.Register(ctx, model.RegisterRequest{
			Name:     "Jane",
			Email:    "jane@example.com",
			Password: "hunter2pass",
		})
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2pass"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{
		ID:           7,
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleDonor,
	}

	t.Run("valid credentials return verifiable token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, testSecret, time.Hour)

		userRepo.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil)

		token, user, err := service.Login(ctx, model.LoginRequest{
			Email:    "jane@example.com",
			Password: "hunter2pass",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		require.NotEmpty(t, token)

		claims, err := service.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
		assert.Equal(t, model.RoleDonor, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, testSecret, time.Hour)

		userRepo.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil)

		_, _, err := service.Login(ctx, model.LoginRequest{
			Email:    "jane@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, testSecret, time.Hour)

		userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

		_, _, err := service.Login(ctx, model.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever123",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, testSecret, time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(userRepo, "other-secret", time.Hour)
		token, err := other.issueToken(&model.User{ID: 1, Role: model.RoleDonor})
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived := NewAuthService(userRepo, testSecret, -time.Minute)
		token, err := shortLived.issueToken(&model.User{ID: 1, Role: model.RoleDonor})
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
