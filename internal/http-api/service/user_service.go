package service

import (
	"context"
	"strings"

	"moviereviews/internal/access"
	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/repository"
	"moviereviews/internal/middleware/auth"

	"go.uber.org/zap"
)

// UserService manages the caller's own account.
type UserService interface {
	Me(ctx context.Context, actor access.Actor) (*dto.MeResponse, error)
	UpdateProfile(ctx context.Context, actor access.Actor, req dto.UpdateProfileRequest) (*dto.MeResponse, error)
	DeleteAccount(ctx context.Context, actor access.Actor) error
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, refreshTokenRepo repository.RefreshTokenRepository, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, refreshTokenRepo: refreshTokenRepo, logger: logger}
}

func profileOf(actor access.Actor) access.Resource {
	return access.Resource{Kind: access.Profile, OwnerID: actor.UserID}
}

func (s *userService) Me(ctx context.Context, actor access.Actor) (*dto.MeResponse, error) {
	if err := access.Authorize(actor, profileOf(actor), access.Read); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor access.Actor, req dto.UpdateProfileRequest) (*dto.MeResponse, error) {
	if err := access.Authorize(actor, profileOf(actor), access.Update); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	var username, email string
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
		if username == "" {
			verr.Add("username", msgBlank)
		}
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
		if email == "" {
			verr.Add("email", msgBlank)
		}
	}
	if err := checkAvailable(ctx, s.userRepo, user.ID, username, email, verr); err != nil {
		return nil, err
	}

	passwordChanged := false
	if req.Password != nil {
		if auth.VerifyPassword(user.PasswordHash, req.CurrentPassword) != nil {
			verr.Add("current_password", "Current password is incorrect.")
		}
		name := user.Username
		if username != "" {
			name = username
		}
		for _, msg := range auth.CheckPassword(*req.Password, name) {
			verr.Add("password", msg)
		}
		passwordChanged = true
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if passwordChanged {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if conflict := userConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, err
	}
	if passwordChanged {
		if err := s.refreshTokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	resp := dto.FromUser(user)
	return &resp, nil
}

// DeleteAccount removes the caller. Their reviews and reactions go with them.
func (s *userService) DeleteAccount(ctx context.Context, actor access.Actor) error {
	if err := access.Authorize(actor, profileOf(actor), access.Delete); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, actor.UserID); err != nil {
		return err
	}
	s.logger.Info("account deleted", zap.String("user_id", actor.UserID))
	return nil
}
