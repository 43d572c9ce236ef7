package dto

import (
	"time"

	"moviereviews/internal/http-api/models"
)

// CreateMovieRequest is the payload for POST /movies
type CreateMovieRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=10000"`
	ReleaseYear *int   `json:"release_year" binding:"omitempty,min=1800,max=2200"`
	Genre       string `json:"genre" binding:"max=100"`
}

// UpdateMovieRequest is the PATCH payload; nil fields are left unchanged.
type UpdateMovieRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=10000"`
	ReleaseYear *int    `json:"release_year" binding:"omitempty,min=1800,max=2200"`
	Genre       *string `json:"genre" binding:"omitempty,max=100"`
}

// MovieListQuery binds the query string of GET /movies
type MovieListQuery struct {
	Genre       string `form:"genre"`
	ReleaseYear *int   `form:"release_year"`
	Search      string `form:"search"`
	Ordering    string `form:"ordering"`
	PageQuery
}

// PageQuery is embedded by every listing query.
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type MovieResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ReleaseYear   *int      `json:"release_year"`
	Genre         string    `json:"genre"`
	CreatedAt     time.Time `json:"created_at"`
	AverageRating *float64  `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
}

func FromMovieWithStats(m *models.MovieWithStats) MovieResponse {
	return MovieResponse{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		ReleaseYear:   m.ReleaseYear,
		Genre:         m.Genre,
		CreatedAt:     m.CreatedAt,
		AverageRating: m.AverageRating,
		ReviewCount:   m.ReviewCount,
	}
}

// FromNewMovie is used right after creation, when there are no reviews yet.
func FromNewMovie(m *models.Movie) MovieResponse {
	return FromMovieWithStats(&models.MovieWithStats{Movie: *m})
}
