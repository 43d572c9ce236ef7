package service

import (
	"context"

	"moviereviews/internal/access"
	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/repository"
	"moviereviews/internal/reaction"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type ReactionService interface {
	React(ctx context.Context, actor access.Actor, reviewID int64, action reaction.Kind) (reaction.Transition, error)
	Reactions(ctx context.Context, reviewID int64) (*dto.ReactionsSummary, error)
}

type reactionService struct {
	reactionRepo repository.ReactionRepository
	reviewRepo   repository.ReviewRepository
	logger       *zap.Logger
}

func NewReactionService(reactionRepo repository.ReactionRepository, reviewRepo repository.ReviewRepository, logger *zap.Logger) ReactionService {
	return &reactionService{reactionRepo: reactionRepo, reviewRepo: reviewRepo, logger: logger}
}

// React applies a like or dislike from actor to the review and reports the
// resulting transition.
func (s *reactionService) React(ctx context.Context, actor access.Actor, reviewID int64, action reaction.Kind) (reaction.Transition, error) {
	ctx, span := tracer.Start(ctx, "ReactionService.React")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("review.id", reviewID),
		attribute.String("reaction.action", string(action)),
	)

	if err := access.Authorize(actor, access.Resource{Kind: access.Reaction}, access.React); err != nil {
		return reaction.Transition{}, err
	}
	if !action.Valid() {
		return reaction.Transition{}, reaction.ErrInvalidAction
	}
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		return reaction.Transition{}, err
	}

	t, err := s.reactionRepo.Toggle(ctx, actor.UserID, reviewID, action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "toggle reaction")
		return reaction.Transition{}, staleActor(err)
	}
	span.SetAttributes(attribute.String("reaction.outcome", string(t.Outcome)))
	s.logger.Debug("reaction toggled",
		zap.Int64("review_id", reviewID),
		zap.String("user_id", actor.UserID),
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)))
	return t, nil
}

// Reactions lists who liked and who disliked a review, newest first.
func (s *reactionService) Reactions(ctx context.Context, reviewID int64) (*dto.ReactionsSummary, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}
	reactors, err := s.reactionRepo.ListReactors(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	summary := dto.SummarizeReactors(reviewID, reactors)
	return &summary, nil
}
