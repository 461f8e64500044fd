package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/repository"
	"github.com/kaushalkumar0001/StressLess/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func TestAuthService_Signup(t *testing.T) {
	users := new(MockUserRepository)
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "asha@example.com" && u.DisplayName == "Asha" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "user-1"
	}).Return(nil).Once()
	svc := NewAuthService(users, testSecret, time.Hour)

	session, err := svc.Signup(context.Background(), "  Asha@Example.com ", "Asha", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "user-1", session.User.ID)
	claims, err := utils.ValidateJWT(testSecret, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, "asha@example.com", claims.Email)
	users.AssertExpectations(t)
}

func TestAuthService_SignupDefaultsDisplayName(t *testing.T) {
	users := new(MockUserRepository)
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.DisplayName == "ravi" && u.PasswordHash == ""
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "user-2"
	}).Return(nil).Once()
	svc := NewAuthService(users, testSecret, time.Hour)

	_, err := svc.Signup(context.Background(), "ravi@example.com", " ", "")

	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestAuthService_SignupErrors(t *testing.T) {
	users := new(MockUserRepository)
	users.On("CreateUser", mock.Anything, mock.Anything).Return(fmt.Errorf("create: %w", repository.ErrDuplicateEmail)).Once()
	svc := NewAuthService(users, testSecret, time.Hour)

	_, err := svc.Signup(context.Background(), "taken@example.com", "", "")
	assert.True(t, IsDuplicateEmail(err))

	_, err = svc.Signup(context.Background(), "not-an-email", "", "")
	assert.True(t, errors.Is(err, ErrContractViolation))

	_, err = svc.Signup(context.Background(), "", "", "")
	assert.True(t, errors.Is(err, ErrContractViolation))
}

func TestAuthService_LoginCreatesUnknownAccount(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, nil).Once()
	users.On("UpsertUserByEmail", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "new@example.com" && u.DisplayName == "new"
	})).Return(&models.User{ID: "user-3", Email: "new@example.com"}, nil).Once()
	svc := NewAuthService(users, testSecret, time.Hour)

	session, err := svc.Login(context.Background(), "NEW@example.com", "")

	require.NoError(t, err)
	assert.Equal(t, "user-3", session.User.ID)
	assert.NotEmpty(t, session.Token)
	users.AssertExpectations(t)
}

func TestAuthService_LoginChecksPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: "user-4", Email: "kim@example.com", PasswordHash: string(hash)}

	users := new(MockUserRepository)
	users.On("GetUserByEmail", mock.Anything, "kim@example.com").Return(stored, nil)
	svc := NewAuthService(users, testSecret, time.Hour)

	_, err = svc.Login(context.Background(), "kim@example.com", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	session, err := svc.Login(context.Background(), "kim@example.com", "right")
	require.NoError(t, err)
	assert.Equal(t, "user-4", session.User.ID)
}

func TestAuthService_LoginWithoutPasswordOnFile(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetUserByEmail", mock.Anything, "lee@example.com").Return(&models.User{ID: "user-5", Email: "lee@example.com"}, nil)
	svc := NewAuthService(users, testSecret, time.Hour)

	session, err := svc.Login(context.Background(), "lee@example.com", "anything")

	require.NoError(t, err)
	assert.Equal(t, "user-5", session.User.ID)
}

func TestAuthService_GetUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetUserByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1"}, nil)
	users.On("GetUserByID", mock.Anything, "ghost").Return(nil, nil)
	svc := NewAuthService(users, testSecret, time.Hour)

	user, err := svc.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	_, err = svc.GetUser(context.Background(), "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}
