package models

import "time"

type Movie struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Description string    `json:"description" gorm:"type:text;not null;default:''"`
	ReleaseYear *int      `json:"release_year" gorm:"check:chk_movies_release_year,release_year >= 0"`
	Genre       string    `json:"genre" gorm:"size:100;not null;default:''"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Movie) TableName() string {
	return "movies"
}

// MovieWithStats is a movie row joined with its review aggregates.
// AverageRating stays nil while the movie has no reviews.
type MovieWithStats struct {
	Movie         `gorm:"embedded"`
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}
