package service

import (
	"context"
	"errors"
	"strings"

	"moviereviews/internal/access"
	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/models"
	"moviereviews/internal/http-api/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("moviereviews/service")

type ReviewService interface {
	Create(ctx context.Context, actor access.Actor, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Get(ctx context.Context, viewer access.Actor, id int64) (*dto.ReviewResponse, error)
	List(ctx context.Context, viewer access.Actor, q dto.ReviewListQuery) (*PageResult[dto.ReviewResponse], error)
	ByMovieTitle(ctx context.Context, viewer access.Actor, q dto.ReviewListQuery) (*PageResult[dto.ReviewResponse], error)
	TopLiked(ctx context.Context, viewer access.Actor, q dto.ReviewListQuery) (*PageResult[dto.ReviewResponse], error)
	Update(ctx context.Context, actor access.Actor, id int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor access.Actor, id int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	movieRepo  repository.MovieRepository
	pageSize   int
	logger     *zap.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	movieRepo repository.MovieRepository,
	pageSize int,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		movieRepo:  movieRepo,
		pageSize:   pageSize,
		logger:     logger,
	}
}

func validateRating(rating int, verr *ValidationError) {
	if rating < models.MinRating || rating > models.MaxRating {
		verr.Add("rating", msgRatingRange)
	}
}

// Create stores the actor's review of a movie. A user may review a movie
// once; the pre-check gives the common case a clean error and the unique
// index catches concurrent submissions.
func (s *reviewService) Create(ctx context.Context, actor access.Actor, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	ctx, span := tracer.Start(ctx, "ReviewService.Create")
	defer span.End()
	span.SetAttributes(attribute.Int64("movie.id", req.Movie))

	if err := access.Authorize(actor, access.Resource{Kind: access.Review}, access.Create); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	rating := 0
	if req.Rating != nil {
		rating = *req.Rating
	}
	validateRating(rating, verr)
	content := strings.TrimSpace(req.Content)
	if content == "" {
		verr.Add("content", msgBlank)
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if _, err := s.movieRepo.GetByID(ctx, req.Movie); err != nil {
		return nil, err
	}
	exists, err := s.reviewRepo.ExistsForUserMovie(ctx, actor.UserID, req.Movie)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ConflictError{Field: "non_field_errors", Message: msgDuplicateReview}
	}

	review := &models.Review{
		UserID:  actor.UserID,
		MovieID: req.Movie,
		Rating:  rating,
		Content: content,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Field: "non_field_errors", Message: msgDuplicateReview}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "create review")
		return nil, staleActor(err)
	}
	span.SetAttributes(attribute.Int64("review.id", review.ID))
	s.logger.Info("review created",
		zap.Int64("review_id", review.ID),
		zap.Int64("movie_id", review.MovieID),
		zap.String("user_id", actor.UserID))

	return s.Get(ctx, actor, review.ID)
}

func (s *reviewService) Get(ctx context.Context, viewer access.Actor, id int64) (*dto.ReviewResponse, error) {
	row, err := s.reviewRepo.GetWithStats(ctx, id, viewer.UserID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromReviewWithStats(row)
	return &resp, nil
}

func (s *reviewService) List(ctx context.Context, viewer access.Actor, q dto.ReviewListQuery) (*PageResult[dto.ReviewResponse], error) {
	return s.list(ctx, viewer, repository.ReviewFilter{
		MovieID:  q.Movie,
		Rating:   q.Rating,
		Search:   q.Search,
		Ordering: q.Ordering,
	}, q.PageQuery)
}

// ByMovieTitle lists reviews of the movie whose title matches exactly,
// ignoring case.
func (s *reviewService) ByMovieTitle(ctx context.Context, viewer access.Actor, q dto.ReviewListQuery) (*PageResult[dto.ReviewResponse], error) {
	title := strings.TrimSpace(q.Title)
	if title == "" {
		return nil, &ValidationError{Detail: msgTitleRequired}
	}
	return s.list(ctx, viewer, repository.ReviewFilter{
		MovieTitle: title,
		Ordering:   q.Ordering,
	}, q.PageQuery)
}

// TopLiked orders by likes, newest first among equals.
func (s *reviewService) TopLiked(ctx context.Context, viewer access.Actor, q dto.ReviewListQuery) (*PageResult[dto.ReviewResponse], error) {
	return s.list(ctx, viewer, repository.ReviewFilter{Ordering: "-likes_count"}, q.PageQuery)
}

func (s *reviewService) list(ctx context.Context, viewer access.Actor, filter repository.ReviewFilter, pq dto.PageQuery) (*PageResult[dto.ReviewResponse], error) {
	page := resolvePage(pq, s.pageSize)
	rows, total, err := s.reviewRepo.List(ctx, filter, viewer.UserID, page)
	if err != nil {
		return nil, err
	}
	if err := checkPage(page, total); err != nil {
		return nil, err
	}
	return &PageResult[dto.ReviewResponse]{
		Items:  dto.FromReviewsWithStats(rows),
		Count:  total,
		Number: page.Number,
		Size:   page.Size,
	}, nil
}

// Update changes rating and/or content of the actor's own review.
func (s *reviewService) Update(ctx context.Context, actor access.Actor, id int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.ownedReview(ctx, actor, id, access.Update)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if req.Movie != nil && *req.Movie != review.MovieID {
		verr.Add("movie", "The movie of a review cannot be changed.")
	}
	if req.Rating != nil {
		validateRating(*req.Rating, verr)
	}
	var content string
	if req.Content != nil {
		content = strings.TrimSpace(*req.Content)
		if content == "" {
			verr.Add("content", msgBlank)
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Content != nil {
		review.Content = content
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

func (s *reviewService) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if _, err := s.ownedReview(ctx, actor, id, access.Delete); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("review deleted", zap.Int64("review_id", id), zap.String("user_id", actor.UserID))
	return nil
}

// ownedReview loads the review and checks op against its owner. Anonymous
// callers get ErrUnauthenticated before the lookup.
func (s *reviewService) ownedReview(ctx context.Context, actor access.Actor, id int64, op access.Operation) (*models.Review, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := access.Resource{Kind: access.Review, OwnerID: review.UserID}
	if err := access.Authorize(actor, res, op); err != nil {
		return nil, err
	}
	return review, nil
}
