package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moviereviews/internal/config"
	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/models"
	"moviereviews/internal/http-api/repository"
	"moviereviews/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenTypeAccess = "access"

// Claims is the payload of an access token.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, username, password string) (*dto.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AccessResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	logger           *zap.Logger
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        []byte(cfg.JWTSecret),
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		logger:           logger,
		now:              time.Now,
	}
}

// Register creates an account. Every field problem is reported at once.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	verr := &ValidationError{}
	if req.Password != req.Password2 {
		verr.Add("password", "Password fields didn't match.")
	}
	for _, msg := range auth.CheckPassword(req.Password, username) {
		verr.Add("password", msg)
	}
	if err := checkAvailable(ctx, s.userRepo, "", username, email, verr); err != nil {
		return nil, err
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with another registration
		if conflict := userConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return &dto.RegisterResponse{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// checkAvailable records a validation message for a username or email that
// belongs to someone other than selfID.
func checkAvailable(ctx context.Context, users repository.UserRepository, selfID, username, email string, verr *ValidationError) error {
	if username != "" {
		u, err := users.FindByUsername(ctx, username)
		switch {
		case err == nil && u.ID != selfID:
			verr.Add("username", "A user with that username already exists.")
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}
	if email != "" {
		u, err := users.FindByEmail(ctx, email)
		switch {
		case err == nil && u.ID != selfID:
			verr.Add("email", "A user with that email already exists.")
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}
	return nil
}

// userConflict turns a unique violation on users into a field error.
func userConflict(err error) error {
	var dup *repository.DuplicateError
	if !errors.As(err, &dup) {
		return nil
	}
	if strings.Contains(dup.Constraint, "email") {
		return &ConflictError{Field: "email", Message: "A user with that email already exists."}
	}
	return &ConflictError{Field: "username", Message: "A user with that username already exists."}
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (*dto.TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// unknown user: still pay for a bcrypt compare
		auth.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("update last_login failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	return &dto.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return refreshToken.Token, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *authService) Refresh(ctx context.Context, refreshTokenString string) (*dto.AccessResponse, error) {
	refreshToken, err := s.liveRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AccessResponse{Access: access}, nil
}

// Logout revokes the refresh token.
func (s *authService) Logout(ctx context.Context, refreshTokenString string) error {
	refreshToken, err := s.liveRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return err
	}
	return s.refreshTokenRepo.Revoke(ctx, refreshToken.ID)
}

func (s *authService) liveRefreshToken(ctx context.Context, tokenString string) (*models.RefreshToken, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if refreshToken.Revoked || s.now().After(refreshToken.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	return refreshToken, nil
}

// ValidateToken parses an access token. Refresh tokens are opaque and never
// pass here.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenTypeAccess || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
