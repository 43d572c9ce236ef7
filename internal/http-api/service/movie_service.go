package service

import (
	"context"
	"strings"

	"moviereviews/internal/access"
	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/models"
	"moviereviews/internal/http-api/repository"

	"go.uber.org/zap"
)

type MovieService interface {
	Create(ctx context.Context, actor access.Actor, req dto.CreateMovieRequest) (*dto.MovieResponse, error)
	Get(ctx context.Context, id int64) (*dto.MovieResponse, error)
	List(ctx context.Context, q dto.MovieListQuery) (*PageResult[dto.MovieResponse], error)
	Update(ctx context.Context, actor access.Actor, id int64, req dto.UpdateMovieRequest) (*dto.MovieResponse, error)
	Delete(ctx context.Context, actor access.Actor, id int64) error
}

type movieService struct {
	movieRepo repository.MovieRepository
	pageSize  int
	logger    *zap.Logger
}

func NewMovieService(movieRepo repository.MovieRepository, pageSize int, logger *zap.Logger) MovieService {
	return &movieService{movieRepo: movieRepo, pageSize: pageSize, logger: logger}
}

var movieResource = access.Resource{Kind: access.Movie}

func (s *movieService) Create(ctx context.Context, actor access.Actor, req dto.CreateMovieRequest) (*dto.MovieResponse, error) {
	if err := access.Authorize(actor, movieResource, access.Create); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Fields: map[string][]string{"title": {msgBlank}}}
	}

	m := &models.Movie{
		Title:       title,
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
		Genre:       strings.TrimSpace(req.Genre),
	}
	if err := s.movieRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("movie created", zap.Int64("movie_id", m.ID), zap.String("user_id", actor.UserID))
	resp := dto.FromNewMovie(m)
	return &resp, nil
}

func (s *movieService) Get(ctx context.Context, id int64) (*dto.MovieResponse, error) {
	m, err := s.movieRepo.GetWithStats(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromMovieWithStats(m)
	return &resp, nil
}

func (s *movieService) List(ctx context.Context, q dto.MovieListQuery) (*PageResult[dto.MovieResponse], error) {
	page := resolvePage(q.PageQuery, s.pageSize)
	filter := repository.MovieFilter{
		Genre:       q.Genre,
		ReleaseYear: q.ReleaseYear,
		Search:      q.Search,
		Ordering:    q.Ordering,
	}
	rows, total, err := s.movieRepo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	if err := checkPage(page, total); err != nil {
		return nil, err
	}

	items := make([]dto.MovieResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.FromMovieWithStats(&rows[i]))
	}
	return &PageResult[dto.MovieResponse]{Items: items, Count: total, Number: page.Number, Size: page.Size}, nil
}

func (s *movieService) Update(ctx context.Context, actor access.Actor, id int64, req dto.UpdateMovieRequest) (*dto.MovieResponse, error) {
	if err := access.Authorize(actor, movieResource, access.Update); err != nil {
		return nil, err
	}
	m, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, &ValidationError{Fields: map[string][]string{"title": {msgBlank}}}
		}
		m.Title = title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.ReleaseYear != nil {
		m.ReleaseYear = req.ReleaseYear
	}
	if req.Genre != nil {
		m.Genre = strings.TrimSpace(*req.Genre)
	}

	if err := s.movieRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the movie with all of its reviews.
func (s *movieService) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if err := access.Authorize(actor, movieResource, access.Delete); err != nil {
		return err
	}
	if err := s.movieRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("movie deleted", zap.Int64("movie_id", id), zap.String("user_id", actor.UserID))
	return nil
}
