package service

import (
	"context"
	"testing"
	"time"

	"moviereviews/internal/access"
	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestMe(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockRefreshTokenRepository), zap.NewNop())
	ctx := context.Background()
	joined := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := svc.Me(ctx, access.Actor{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	users.On("FindByID", ctx, "alice").Return(&models.User{ID: "alice", Username: "alice", CreatedAt: joined}, nil)
	me, err := svc.Me(ctx, access.Actor{UserID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, joined, me.DateJoined)
}

func TestUpdateProfile_PasswordChangeRevokesTokens(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockRefreshTokenRepository)
	svc := NewUserService(users, tokens, zap.NewNop())
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("old-password-1"), bcrypt.MinCost)
	users.On("FindByID", ctx, "alice").Return(&models.User{ID: "alice", Username: "alice", PasswordHash: string(hashed)}, nil)
	users.On("Update", ctx, mock.MatchedBy(func(u *models.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-password-2")) == nil
	})).Return(nil)
	tokens.On("RevokeAllForUser", ctx, "alice").Return(nil)

	_, err := svc.UpdateProfile(ctx, access.Actor{UserID: "alice"}, dto.UpdateProfileRequest{
		Password:        strPtr("new-password-2"),
		CurrentPassword: "old-password-1",
	})

	require.NoError(t, err)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestUpdateProfile_WrongCurrentPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockRefreshTokenRepository), zap.NewNop())
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("old-password-1"), bcrypt.MinCost)
	users.On("FindByID", ctx, "alice").Return(&models.User{ID: "alice", Username: "alice", PasswordHash: string(hashed)}, nil)

	_, err := svc.UpdateProfile(ctx, access.Actor{UserID: "alice"}, dto.UpdateProfileRequest{
		Password:        strPtr("new-password-2"),
		CurrentPassword: "nope",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockRefreshTokenRepository), zap.NewNop())
	ctx := context.Background()

	users.On("FindByID", ctx, "alice").Return(&models.User{ID: "alice", Username: "alice"}, nil)
	users.On("FindByUsername", ctx, "bob").Return(&models.User{ID: "bob"}, nil)

	_, err := svc.UpdateProfile(ctx, access.Actor{UserID: "alice"}, dto.UpdateProfileRequest{Username: strPtr("bob")})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
}

func TestDeleteAccount(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockRefreshTokenRepository), zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteAccount(ctx, access.Actor{}), ErrUnauthenticated)

	users.On("Delete", ctx, "alice").Return(nil)
	assert.NoError(t, svc.DeleteAccount(ctx, access.Actor{UserID: "alice"}))
}
