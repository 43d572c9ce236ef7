package models

import (
	"time"

	"moviereviews/internal/reaction"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uq_review_user_movie,priority:1"`
	MovieID   int64     `json:"movie_id" gorm:"not null;uniqueIndex:uq_review_user_movie,priority:2;index"`
	Rating    int       `json:"rating" gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Content   string    `json:"content" gorm:"not null;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Movie *Movie `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewWithStats is a review row joined with its author, movie title and
// reaction aggregates. MyReaction is the viewer's own reaction, None for
// anonymous viewers.
type ReviewWithStats struct {
	Review        `gorm:"embedded"`
	Username      string        `json:"username"`
	MovieTitle    string        `json:"movie_title"`
	LikesCount    int64         `json:"likes_count"`
	DislikesCount int64         `json:"dislikes_count"`
	MyReaction    reaction.Kind `json:"my_reaction"`
}
