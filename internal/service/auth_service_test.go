package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/mocks"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser(t *testing.T, password string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Username:     "operator1",
		PasswordHash: string(hash),
		FullName:     "Field Operator",
		IsActive:     active,
	}
}

func newAuthService(repo *mocks.MockUserRepository) *AuthService {
	s := NewAuthService(repo, testSecret, time.Hour, quietLogger())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestAuthService_LoginAndParseToken(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	user := testUser(t, "s3cret-pass", true)
	repo.On("GetByUsername", mock.Anything, "operator1").Return(user, nil)
	s := newAuthService(repo)

	resp, err := s.Login(context.Background(), domain.LoginRequest{Username: "operator1", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, fixedNow.Add(time.Hour), resp.ExpiresAt)
	assert.Equal(t, user.ID, resp.User.ID)

	identity, err := s.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "operator1", identity.Username)
	repo.AssertExpectations(t)
}

func TestAuthService_LoginRejected(t *testing.T) {
	tests := []struct {
		name        string
		req         domain.LoginRequest
		setupMock   func(repo *mocks.MockUserRepository)
		expectedErr error
	}{
		{
			name:        "missing password",
			req:         domain.LoginRequest{Username: "operator1"},
			setupMock:   func(repo *mocks.MockUserRepository) {},
			expectedErr: customError.ErrValidation,
		},
		{
			name: "unknown user",
			req:  domain.LoginRequest{Username: "ghost", Password: "whatever1"},
			setupMock: func(repo *mocks.MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, customError.WrapUserNotFound("ghost"))
			},
			expectedErr: customError.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			req:  domain.LoginRequest{Username: "operator1", Password: "wrong-pass"},
			setupMock: func(repo *mocks.MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "operator1").Return(testUser(t, "s3cret-pass", true), nil)
			},
			expectedErr: customError.ErrInvalidCredentials,
		},
		{
			name: "deactivated user",
			req:  domain.LoginRequest{Username: "operator1", Password: "s3cret-pass"},
			setupMock: func(repo *mocks.MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "operator1").Return(testUser(t, "s3cret-pass", false), nil)
			},
			expectedErr: customError.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockUserRepository{}
			tt.setupMock(repo)

			resp, err := newAuthService(repo).Login(context.Background(), tt.req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.expectedErr)
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	user := testUser(t, "s3cret-pass", true)
	issuer := newAuthService(repo)
	token, _, err := issuer.issueToken(user)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newAuthService(repo)
		later.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }

		_, err := later.ParseToken(token)
		assert.ErrorIs(t, err, customError.ErrUnauthorized)
	})

	t.Run("signed with another key", func(t *testing.T) {
		other := NewAuthService(repo, "ffffffffffffffffffffffffffffffff", time.Hour, quietLogger())
		other.now = issuer.now

		_, err := other.ParseToken(token)
		assert.ErrorIs(t, err, customError.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ParseToken("not-a-token")
		assert.ErrorIs(t, err, customError.ErrUnauthorized)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	user := testUser(t, "s3cret-pass", true)
	token, _, err := newAuthService(&mocks.MockUserRepository{}).issueToken(user)
	require.NoError(t, err)

	deactivated := *user
	deactivated.IsActive = false
	recreated := *user
	recreated.ID = uuid.New()

	tests := []struct {
		name        string
		stored      *domain.User
		lookupErr   error
		expectedErr error
	}{
		{name: "active account", stored: user},
		{name: "deactivated after login", stored: &deactivated, expectedErr: customError.ErrUnauthorized},
		{name: "account removed", lookupErr: customError.WrapUserNotFound("operator1"), expectedErr: customError.ErrUnauthorized},
		{name: "username reused by another account", stored: &recreated, expectedErr: customError.ErrUnauthorized},
		{name: "storage down", lookupErr: customError.WrapDatabaseError(assert.AnError), expectedErr: customError.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockUserRepository{}
			if tt.lookupErr != nil {
				repo.On("GetByUsername", mock.Anything, "operator1").Return(nil, tt.lookupErr).Once()
			} else {
				repo.On("GetByUsername", mock.Anything, "operator1").Return(tt.stored, nil).Once()
			}

			identity, err := newAuthService(repo).Authenticate(context.Background(), token)

			if tt.expectedErr != nil {
				assert.Nil(t, identity)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, user.ID, identity.UserID)
			}
			repo.AssertExpectations(t)
		})
	}

	t.Run("bad token skips the lookup", func(t *testing.T) {
		repo := &mocks.MockUserRepository{}

		_, err := newAuthService(repo).Authenticate(context.Background(), "not-a-token")

		assert.ErrorIs(t, err, customError.ErrUnauthorized)
		repo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	})
}
