package models

import (
	"time"

	"moviereviews/internal/reaction"
)

// Reaction is the single row a user may hold on a review. The composite
// unique index is what makes the one-reaction-per-pair rule hold under
// concurrent toggles.
type Reaction struct {
	ID        int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string        `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uq_reaction_user_review,priority:1"`
	ReviewID  int64         `json:"review_id" gorm:"not null;uniqueIndex:uq_reaction_user_review,priority:2;index"`
	Kind      reaction.Kind `json:"kind" gorm:"type:varchar(10);not null;check:chk_reactions_kind,kind IN ('like','dislike')"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Review *Review `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;"`
}

func (Reaction) TableName() string {
	return "reactions"
}

// Reactor is one entry of a review's likers or dislikers list.
type Reactor struct {
	UserID    string        `json:"user_id"`
	Username  string        `json:"username"`
	Kind      reaction.Kind `json:"-"`
	ReactedAt time.Time     `json:"reacted_at"`
}

// All lists the models managed by AutoMigrate, parents first.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&Movie{},
		&Review{},
		&Reaction{},
	}
}
