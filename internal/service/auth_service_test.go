package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/supportdesk/ticket-api/internal/auth"
	"github.com/supportdesk/ticket-api/internal/domain"
	"github.com/supportdesk/ticket-api/internal/mocks"
	"github.com/supportdesk/ticket-api/internal/service"
	apperrors "github.com/supportdesk/ticket-api/pkg/util/errorutil"
)

func newAuthService(users *mocks.MockUserRepository, revoked *mocks.MockRevocationStore) *service.AuthService {
	tokens := auth.NewTokenManager("test-secret", 60)
	var store auth.RevocationStore
	if revoked != nil {
		store = revoked
	}
	return service.NewAuthService(users, tokens, store, bcrypt.MinCost)
}

func TestAuthService_Register_RoleAssignment(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		email string
		role  domain.Role
	}{
		{"admin@support.com", domain.RoleAdmin},
		{"agent@support.com", domain.RoleAgent},
		{"bob@example.com", domain.RoleUser},
		{"Admin@Support.com", domain.RoleAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			users := mocks.NewMockUserRepository()
			svc := newAuthService(users, nil)

			users.On("GetByEmail", ctx, mock.AnythingOfType("string")).Return(nil, pgx.ErrNoRows)
			users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

			user, token, expiresAt, err := svc.Register(ctx, "Someone", tc.email, "secret123")

			require.NoError(t, err)
			assert.Equal(t, tc.role, user.Role)
			assert.NotEmpty(t, token)
			assert.True(t, expiresAt.After(time.Now()))
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	svc := newAuthService(users, nil)

	users.On("GetByEmail", ctx, "bob@example.com").Return(&domain.User{
		ID:    "user-1",
		Email: "bob@example.com",
		Role:  domain.RoleUser,
	}, nil)

	_, _, _, err := svc.Register(ctx, "Bob", "bob@example.com", "secret123")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Contains(t, err.Error(), "User already exists with this email")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	svc := newAuthService(users, nil)

	_, _, _, err := svc.Register(ctx, "", "", "")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Contains(t, err.Error(), "Name is required")
	assert.Contains(t, err.Error(), "Email is required")
	assert.Contains(t, err.Error(), "Password is required")
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)

	stored := &domain.User{
		ID:           "user-1",
		Name:         "Bob",
		Email:        "bob@example.com",
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}

	t.Run("returns a token carrying the user's claims", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		svc := newAuthService(users, nil)
		users.On("GetByEmail", ctx, "bob@example.com").Return(stored, nil)

		user, token, _, err := svc.Login(ctx, "Bob@Example.com", "secret123")

		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)

		claims, err := svc.TokenManager().ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, "bob@example.com", claims.Email)
		assert.Equal(t, domain.RoleUser, claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		svc := newAuthService(users, nil)
		users.On("GetByEmail", ctx, "bob@example.com").Return(stored, nil)
		users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, pgx.ErrNoRows)

		_, _, _, badPassword := svc.Login(ctx, "bob@example.com", "wrong")
		_, _, _, badEmail := svc.Login(ctx, "nobody@example.com", "secret123")

		require.Error(t, badPassword)
		require.Error(t, badEmail)
		assert.True(t, apperrors.HasCode(badPassword, apperrors.CodeUnauthorized))
		assert.True(t, apperrors.HasCode(badEmail, apperrors.CodeUnauthorized))
		assert.Equal(t, badPassword.Error(), badEmail.Error())
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the token for its remaining lifetime", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		revoked := mocks.NewMockRevocationStore()
		svc := newAuthService(users, revoked)

		_, token, _, err := func() (*domain.User, string, time.Time, error) {
			users.On("GetByEmail", ctx, "bob@example.com").Return(nil, pgx.ErrNoRows)
			users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
			return svc.Register(ctx, "Bob", "bob@example.com", "secret123")
		}()
		require.NoError(t, err)

		revoked.On("Revoke", ctx, mock.AnythingOfType("string"), mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 0
		})).Return(nil)

		require.NoError(t, svc.Logout(ctx, token))
		revoked.AssertExpectations(t)
	})

	t.Run("rejects a malformed token", func(t *testing.T) {
		users := mocks.NewMockUserRepository()
		revoked := mocks.NewMockRevocationStore()
		svc := newAuthService(users, revoked)

		err := svc.Logout(ctx, "not-a-token")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
		revoked.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})
}
