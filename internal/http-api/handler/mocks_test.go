package handler_test

import (
	"context"

	"moviereviews/internal/access"
	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/service"
	"moviereviews/internal/reaction"

	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) Create(ctx context.Context, actor access.Actor, req dto.CreateMovieRequest) (*dto.MovieResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MovieResponse), args.Error(1)
}

func (m *MockMovieService) Get(ctx context.Context, id int64) (*dto.MovieResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MovieResponse), args.Error(1)
}

func (m *MockMovieService) List(ctx context.Context, q dto.MovieListQuery) (*service.PageResult[dto.MovieResponse], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PageResult[dto.MovieResponse]), args.Error(1)
}

func (m *MockMovieService) Update(ctx context.Context, actor access.Actor, id int64, req dto.UpdateMovieRequest) (*dto.MovieResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MovieResponse), args.Error(1)
}

func (m *MockMovieService) Delete(ctx context.Context, actor access.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, actor access.Actor, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, viewer access.Actor, id int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) page(args mock.Arguments) (*service.PageResult[dto.ReviewResponse], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PageResult[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) List(ctx context.Context, viewer access.Actor, q dto.ReviewListQuery) (*service.PageResult[dto.ReviewResponse], error) {
	return m.page(m.Called(ctx, viewer, q))
}

func (m *MockReviewService) ByMovieTitle(ctx context.Context, viewer access.Actor, q dto.ReviewListQuery) (*service.PageResult[dto.ReviewResponse], error) {
	return m.page(m.Called(ctx, viewer, q))
}

func (m *MockReviewService) TopLiked(ctx context.Context, viewer access.Actor, q dto.ReviewListQuery) (*service.PageResult[dto.ReviewResponse], error) {
	return m.page(m.Called(ctx, viewer, q))
}

func (m *MockReviewService) Update(ctx context.Context, actor access.Actor, id int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, actor access.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockReactionService struct {
	mock.Mock
}

func (m *MockReactionService) React(ctx context.Context, actor access.Actor, reviewID int64, action reaction.Kind) (reaction.Transition, error) {
	args := m.Called(ctx, actor, reviewID, action)
	return args.Get(0).(reaction.Transition), args.Error(1)
}

func (m *MockReactionService) Reactions(ctx context.Context, reviewID int64) (*dto.ReactionsSummary, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReactionsSummary), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RegisterResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*dto.TokenPair, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenPair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AccessResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AccessResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

// ValidateToken accepts "token-<user id>".
func (m *MockAuthService) ValidateToken(token string) (*service.Claims, error) {
	const prefix = "token-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, service.ErrInvalidToken
	}
	return &service.Claims{UserID: token[len(prefix):]}, nil
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Me(ctx context.Context, actor access.Actor) (*dto.MeResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MeResponse), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, actor access.Actor, req dto.UpdateProfileRequest) (*dto.MeResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MeResponse), args.Error(1)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, actor access.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}
