package dto

import (
	"time"

	"moviereviews/internal/http-api/models"
	"moviereviews/internal/reaction"
)

// ReactionResponse is returned by the like and dislike endpoints.
type ReactionResponse struct {
	Reaction reaction.Kind `json:"reaction"`
	Message  string        `json:"message"`
}

func FromTransition(t reaction.Transition) ReactionResponse {
	return ReactionResponse{Reaction: t.To, Message: t.Message()}
}

type ReactorResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ReactedAt time.Time `json:"reacted_at"`
}

// ReactionsSummary is the body of GET /reviews/{id}/reactions
type ReactionsSummary struct {
	ReviewID      int64             `json:"review_id"`
	LikesCount    int               `json:"likes_count"`
	DislikesCount int               `json:"dislikes_count"`
	Likers        []ReactorResponse `json:"likers"`
	Dislikers     []ReactorResponse `json:"dislikers"`
}

// SummarizeReactors splits reactors by kind, keeping their order.
func SummarizeReactors(reviewID int64, reactors []models.Reactor) ReactionsSummary {
	s := ReactionsSummary{
		ReviewID:  reviewID,
		Likers:    []ReactorResponse{},
		Dislikers: []ReactorResponse{},
	}
	for _, r := range reactors {
		entry := ReactorResponse{UserID: r.UserID, Username: r.Username, ReactedAt: r.ReactedAt}
		switch r.Kind {
		case reaction.Like:
			s.Likers = append(s.Likers, entry)
		case reaction.Dislike:
			s.Dislikers = append(s.Dislikers, entry)
		}
	}
	s.LikesCount = len(s.Likers)
	s.DislikesCount = len(s.Dislikers)
	return s
}
