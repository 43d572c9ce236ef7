package repository

import (
	"context"
	"fmt"

	"moviereviews/internal/http-api/models"

	"gorm.io/gorm"
)

// ReviewFilter narrows a review listing. MovieTitle is a case-insensitive
// exact match, Search a token substring match on the movie title.
type ReviewFilter struct {
	MovieID    *int64
	Rating     *int
	MovieTitle string
	Search     string
	Ordering   string
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	GetWithStats(ctx context.Context, id int64, viewerID string) (*models.ReviewWithStats, error)
	ExistsForUserMovie(ctx context.Context, userID string, movieID int64) (bool, error)
	List(ctx context.Context, f ReviewFilter, viewerID string, page Page) ([]models.ReviewWithStats, int64, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review. A second review for the same (user, movie)
// fails with a *DuplicateError even when two requests race past any
// pre-check, since the unique index decides.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", translate(err))
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepository) GetWithStats(ctx context.Context, id int64, viewerID string) (*models.ReviewWithStats, error) {
	var rows []models.ReviewWithStats
	err := r.withStats(r.filtered(ctx, ReviewFilter{}), viewerID).
		Where("reviews.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get review %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *reviewRepository) ExistsForUserMovie(ctx context.Context, userID string, movieID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return n > 0, nil
}

func (r *reviewRepository) List(ctx context.Context, f ReviewFilter, viewerID string, page Page) ([]models.ReviewWithStats, int64, error) {
	page = page.Normalize()

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	rows := make([]models.ReviewWithStats, 0, page.Size)
	if total == 0 {
		return rows, 0, nil
	}
	err := r.withStats(r.filtered(ctx, f), viewerID).
		Order(buildOrder(f.Ordering, reviewOrdering, reviewDefaultOrder, reviewTiebreak)).
		Limit(page.Size).
		Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return rows, total, nil
}

// Update writes rating and content; the author and movie never change.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	res := r.db.WithContext(ctx).Model(review).
		Select("rating", "content", "updated_at").
		Updates(review)
	if res.Error != nil {
		return fmt.Errorf("update review: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the review; its reactions cascade.
func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// filtered joins movies so that title filters can be applied; the count
// query and the page query share it.
func (r *reviewRepository) filtered(ctx context.Context, f ReviewFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Review{}).
		Joins("JOIN movies ON movies.id = reviews.movie_id")
	if f.MovieID != nil {
		q = q.Where("reviews.movie_id = ?", *f.MovieID)
	}
	if f.Rating != nil {
		q = q.Where("reviews.rating = ?", *f.Rating)
	}
	if f.MovieTitle != "" {
		q = q.Where("LOWER(movies.title) = LOWER(?)", f.MovieTitle)
	}
	if where, args := searchClause(f.Search, "movies.title"); where != "" {
		q = q.Where(where, args...)
	}
	return q
}

// withStats expects q to come from filtered, which already joins movies.
func (r *reviewRepository) withStats(q *gorm.DB, viewerID string) *gorm.DB {
	return q.Select(reviewStatsSelect, viewerArg(viewerID)).
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("LEFT JOIN reactions ON reactions.review_id = reviews.id").
		Group(reviewStatsGroup)
}
