package service

import (
	"context"
	"testing"
	"time"

	"moviereviews/internal/access"
	"moviereviews/internal/http-api/models"
	"moviereviews/internal/http-api/repository"
	"moviereviews/internal/reaction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestReactionService() (ReactionService, *MockReactionRepository, *MockReviewRepository) {
	reactions := new(MockReactionRepository)
	reviews := new(MockReviewRepository)
	return NewReactionService(reactions, reviews, zap.NewNop()), reactions, reviews
}

func TestReact_AppliesTransition(t *testing.T) {
	svc, reactions, reviews := newTestReactionService()
	ctx := context.Background()
	actor := access.Actor{UserID: "bob"}

	added := reaction.Transition{From: reaction.None, To: reaction.Like, Outcome: reaction.Added}
	reviews.On("GetByID", mock.Anything, int64(5)).Return(&models.Review{ID: 5, UserID: "alice"}, nil)
	reactions.On("Toggle", mock.Anything, "bob", int64(5), reaction.Like).Return(added, nil)

	got, err := svc.React(ctx, actor, 5, reaction.Like)

	require.NoError(t, err)
	assert.Equal(t, added, got)
	assert.True(t, got.Created())
	reactions.AssertExpectations(t)
}

func TestReact_Anonymous(t *testing.T) {
	svc, reactions, _ := newTestReactionService()

	_, err := svc.React(context.Background(), access.Actor{}, 5, reaction.Like)

	assert.ErrorIs(t, err, ErrUnauthenticated)
	reactions.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReact_ReviewMissing(t *testing.T) {
	svc, reactions, reviews := newTestReactionService()
	reviews.On("GetByID", mock.Anything, int64(5)).Return(nil, repository.ErrNotFound)

	_, err := svc.React(context.Background(), access.Actor{UserID: "bob"}, 5, reaction.Dislike)

	assert.ErrorIs(t, err, ErrNotFound)
	reactions.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReact_AccountDeleted(t *testing.T) {
	svc, reactions, reviews := newTestReactionService()
	reviews.On("GetByID", mock.Anything, int64(5)).Return(&models.Review{ID: 5, UserID: "alice"}, nil)
	reactions.On("Toggle", mock.Anything, "bob", int64(5), reaction.Like).
		Return(reaction.Transition{}, &repository.ReferenceError{Constraint: "fk_reactions_user"})

	_, err := svc.React(context.Background(), access.Actor{UserID: "bob"}, 5, reaction.Like)

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestReact_InvalidAction(t *testing.T) {
	svc, _, _ := newTestReactionService()
	_, err := svc.React(context.Background(), access.Actor{UserID: "bob"}, 5, reaction.None)
	assert.ErrorIs(t, err, reaction.ErrInvalidAction)
}

func TestReactions_SplitsByKind(t *testing.T) {
	svc, reactions, reviews := newTestReactionService()
	ctx := context.Background()
	now := time.Now()

	reviews.On("GetByID", ctx, int64(5)).Return(&models.Review{ID: 5}, nil)
	reactions.On("ListReactors", ctx, int64(5)).Return([]models.Reactor{
		{UserID: "u3", Username: "carol", Kind: reaction.Like, ReactedAt: now},
		{UserID: "u2", Username: "bob", Kind: reaction.Dislike, ReactedAt: now.Add(-time.Minute)},
		{UserID: "u1", Username: "alice", Kind: reaction.Like, ReactedAt: now.Add(-time.Hour)},
	}, nil)

	got, err := svc.Reactions(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ReviewID)
	assert.Equal(t, 2, got.LikesCount)
	assert.Equal(t, 1, got.DislikesCount)
	require.Len(t, got.Likers, 2)
	assert.Equal(t, "carol", got.Likers[0].Username)
	assert.Equal(t, "alice", got.Likers[1].Username)
	assert.Equal(t, "bob", got.Dislikers[0].Username)
}
