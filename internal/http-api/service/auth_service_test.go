package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"moviereviews/internal/config"
	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/models"
	"moviereviews/internal/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuthService() (*authService, *MockUserRepository, *MockRefreshTokenRepository) {
	users := new(MockUserRepository)
	tokens := new(MockRefreshTokenRepository)
	cfg := &config.Config{
		JWTSecret:       testSecret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	svc := NewAuthService(users, tokens, cfg, zap.NewNop()).(*authService)
	return svc, users, tokens
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:  "testuser",
		Email:     "test@example.com",
		Password:  "s3cure-passphrase",
		Password2: "s3cure-passphrase",
	}
}

func TestRegister_Success(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	users.On("FindByUsername", ctx, "testuser").Return(nil, repository.ErrNotFound)
	users.On("FindByEmail", ctx, "test@example.com").Return(nil, repository.ErrNotFound)
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "testuser" && u.PasswordHash != "s3cure-passphrase" && u.ID != ""
	})).Return(nil)

	resp, err := svc.Register(ctx, validRegister())

	require.NoError(t, err)
	assert.Equal(t, "testuser", resp.Username)
	assert.Equal(t, "test@example.com", resp.Email)
	assert.NotEmpty(t, resp.ID)
	users.AssertExpectations(t)
}

func TestRegister_CollectsFieldErrors(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	users.On("FindByUsername", ctx, "testuser").Return(&models.User{ID: "other"}, nil)
	users.On("FindByEmail", ctx, "test@example.com").Return(&models.User{ID: "other"}, nil)

	req := validRegister()
	req.Password2 = "different"
	_, err := svc.Register(ctx, req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["password"], "Password fields didn't match.")
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_RaceOnUniqueIndex(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	users.On("FindByUsername", ctx, "testuser").Return(nil, repository.ErrNotFound)
	users.On("FindByEmail", ctx, "test@example.com").Return(nil, repository.ErrNotFound)
	users.On("Create", ctx, mock.Anything).Return(&repository.DuplicateError{Constraint: "uq_users_email_lower"})

	_, err := svc.Register(ctx, validRegister())

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin_Success(t *testing.T) {
	svc, users, tokens := newTestAuthService()
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{ID: "user-id", Username: "testuser", PasswordHash: string(hashed)}

	users.On("FindByUsername", ctx, "testuser").Return(user, nil)
	users.On("TouchLastLogin", ctx, "user-id", mock.Anything).Return(nil)
	tokens.On("Create", ctx, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	pair, err := svc.Login(ctx, "testuser", "password123")

	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	claims, err := svc.ValidateToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestLogin_InvalidPassword(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	users.On("FindByUsername", ctx, "testuser").Return(&models.User{ID: "user-id", PasswordHash: string(hashed)}, nil)

	_, err := svc.Login(ctx, "testuser", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	users.On("FindByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound)

	_, err := svc.Login(ctx, "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StoreFailure(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	boom := errors.New("connection refused")
	users.On("FindByUsername", ctx, "testuser").Return(nil, boom)

	_, err := svc.Login(ctx, "testuser", "whatever")
	assert.ErrorIs(t, err, boom)
}

func TestRefresh(t *testing.T) {
	svc, users, tokens := newTestAuthService()
	ctx := context.Background()
	now := time.Now()

	tokens.On("FindByToken", ctx, "live").Return(&models.RefreshToken{ID: "t1", UserID: "user-id", ExpiresAt: now.Add(time.Hour)}, nil)
	tokens.On("FindByToken", ctx, "expired").Return(&models.RefreshToken{ID: "t2", UserID: "user-id", ExpiresAt: now.Add(-time.Hour)}, nil)
	tokens.On("FindByToken", ctx, "revoked").Return(&models.RefreshToken{ID: "t3", UserID: "user-id", ExpiresAt: now.Add(time.Hour), Revoked: true}, nil)
	tokens.On("FindByToken", ctx, "unknown").Return(nil, repository.ErrNotFound)
	users.On("FindByID", ctx, "user-id").Return(&models.User{ID: "user-id", Username: "testuser"}, nil)

	resp, err := svc.Refresh(ctx, "live")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Access)

	for _, tok := range []string{"expired", "revoked", "unknown"} {
		_, err := svc.Refresh(ctx, tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	tokens.On("FindByToken", ctx, "live").Return(&models.RefreshToken{ID: "t1", ExpiresAt: time.Now().Add(time.Hour)}, nil)
	tokens.On("Revoke", ctx, "t1").Return(nil)

	require.NoError(t, svc.Logout(ctx, "live"))
	tokens.AssertExpectations(t)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc, _, _ := newTestAuthService()

	sign := func(claims jwt.Claims, key []byte) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := Claims{
		UserID:    "user-id",
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}

	_, err := svc.ValidateToken(sign(valid, []byte(testSecret)))
	assert.NoError(t, err)

	_, err = svc.ValidateToken(sign(valid, []byte("some-other-secret-some-other-secret")))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = svc.ValidateToken(sign(expired, []byte(testSecret)))
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongType := valid
	wrongType.TokenType = "refresh"
	_, err = svc.ValidateToken(sign(wrongType, []byte(testSecret)))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
