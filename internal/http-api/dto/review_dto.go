package dto

import (
	"time"

	"moviereviews/internal/http-api/models"
	"moviereviews/internal/reaction"
)

// CreateReviewRequest: payload for POST /reviews. Rating range is checked by
// the service so the error message matches the other rating checks.
type CreateReviewRequest struct {
	Movie   int64  `json:"movie" binding:"required,min=1"`
	Rating  *int   `json:"rating" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdateReviewRequest is the PATCH payload. Movie is accepted only to be
// rejected when it differs from the stored one.
type UpdateReviewRequest struct {
	Movie   *int64  `json:"movie"`
	Rating  *int    `json:"rating"`
	Content *string `json:"content"`
}

// ReviewListQuery binds the query string of GET /reviews and its variants.
type ReviewListQuery struct {
	Movie    *int64 `form:"movie"`
	Rating   *int   `form:"rating"`
	Search   string `form:"search"`
	Ordering string `form:"ordering"`
	Title    string `form:"title"`
	PageQuery
}

type ReviewResponse struct {
	ID            int64         `json:"id"`
	Movie         int64         `json:"movie"`
	MovieTitle    string        `json:"movie_title"`
	User          string        `json:"user"`
	Rating        int           `json:"rating"`
	Content       string        `json:"content"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	LikesCount    int64         `json:"likes_count"`
	DislikesCount int64         `json:"dislikes_count"`
	MyReaction    reaction.Kind `json:"my_reaction"`
}

func FromReviewWithStats(r *models.ReviewWithStats) ReviewResponse {
	return ReviewResponse{
		ID:            r.ID,
		Movie:         r.MovieID,
		MovieTitle:    r.MovieTitle,
		User:          r.Username,
		Rating:        r.Rating,
		Content:       r.Content,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		LikesCount:    r.LikesCount,
		DislikesCount: r.DislikesCount,
		MyReaction:    r.MyReaction,
	}
}

func FromReviewsWithStats(rows []models.ReviewWithStats) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromReviewWithStats(&rows[i]))
	}
	return out
}
