package repository

import (
	"context"
	"fmt"

	"moviereviews/internal/http-api/models"

	"gorm.io/gorm"
)

// MovieFilter narrows a movie listing. Zero values mean "no filter".
type MovieFilter struct {
	Genre       string
	ReleaseYear *int
	Search      string
	Ordering    string
}

type MovieRepository interface {
	Create(ctx context.Context, m *models.Movie) error
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	GetWithStats(ctx context.Context, id int64) (*models.MovieWithStats, error)
	List(ctx context.Context, f MovieFilter, page Page) ([]models.MovieWithStats, int64, error)
	Update(ctx context.Context, m *models.Movie) error
	Delete(ctx context.Context, id int64) error
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) Create(ctx context.Context, m *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create movie: %w", translate(err))
	}
	return nil
}

func (r *movieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *movieRepository) GetWithStats(ctx context.Context, id int64) (*models.MovieWithStats, error) {
	var rows []models.MovieWithStats
	err := r.withStats(r.db.WithContext(ctx).Model(&models.Movie{})).
		Where("movies.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *movieRepository) List(ctx context.Context, f MovieFilter, page Page) ([]models.MovieWithStats, int64, error) {
	page = page.Normalize()

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	rows := make([]models.MovieWithStats, 0, page.Size)
	if total == 0 {
		return rows, 0, nil
	}
	err := r.withStats(r.filtered(ctx, f)).
		Order(buildOrder(f.Ordering, movieOrdering, movieDefaultOrder, movieTiebreak)).
		Limit(page.Size).
		Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	return rows, total, nil
}

func (r *movieRepository) Update(ctx context.Context, m *models.Movie) error {
	res := r.db.WithContext(ctx).Model(m).
		Select("title", "description", "release_year", "genre").
		Updates(m)
	if res.Error != nil {
		return fmt.Errorf("update movie: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the movie; its reviews and their reactions cascade.
func (r *movieRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Movie{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// filtered builds a fresh statement with the WHERE clauses of f applied.
// It is called once per statement since gorm chains are not reusable.
func (r *movieRepository) filtered(ctx context.Context, f MovieFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Movie{})
	if f.Genre != "" {
		q = q.Where("movies.genre = ?", f.Genre)
	}
	if f.ReleaseYear != nil {
		q = q.Where("movies.release_year = ?", *f.ReleaseYear)
	}
	if where, args := searchClause(f.Search, "movies.title", "movies.genre"); where != "" {
		q = q.Where(where, args...)
	}
	return q
}

func (r *movieRepository) withStats(q *gorm.DB) *gorm.DB {
	return q.Select(movieStatsSelect).
		Joins("LEFT JOIN reviews ON reviews.movie_id = movies.id").
		Group("movies.id")
}
