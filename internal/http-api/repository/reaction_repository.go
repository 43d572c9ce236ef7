package repository

import (
	"context"
	"errors"
	"fmt"

	"moviereviews/internal/http-api/models"
	"moviereviews/internal/reaction"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// toggleAttempts bounds how often Toggle retries when the row it conflicted
// with is deleted by a concurrent toggle before it could be locked.
const toggleAttempts = 5

type ReactionRepository interface {
	Toggle(ctx context.Context, userID string, reviewID int64, action reaction.Kind) (reaction.Transition, error)
	ListReactors(ctx context.Context, reviewID int64) ([]models.Reactor, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Toggle applies action to the (user, review) pair in one transaction.
//
// The insert goes first with ON CONFLICT DO NOTHING, so the first reaction
// of a pair never needs a read. When the pair already has a row the insert
// affects nothing; the row is then locked with SELECT ... FOR UPDATE and the
// state machine decides whether to delete it or flip its kind. A concurrent
// first reaction blocks on the unique index and ends up on the locked path.
func (r *reactionRepository) Toggle(ctx context.Context, userID string, reviewID int64, action reaction.Kind) (reaction.Transition, error) {
	if !action.Valid() {
		return reaction.Transition{}, reaction.ErrInvalidAction
	}

	var result reaction.Transition
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for attempt := 0; attempt < toggleAttempts; attempt++ {
			row := models.Reaction{UserID: userID, ReviewID: reviewID, Kind: action}
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "review_id"}},
				DoNothing: true,
			}).Create(&row)
			if res.Error != nil {
				return translate(res.Error)
			}
			if res.RowsAffected == 1 {
				t, err := reaction.Next(reaction.None, action)
				if err != nil {
					return err
				}
				result = t
				return nil
			}

			var existing models.Reaction
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ? AND review_id = ?", userID, reviewID).
				Take(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// removed between our insert and the lock; start over
				continue
			}
			if err != nil {
				return err
			}

			t, err := reaction.Next(existing.Kind, action)
			if err != nil {
				return err
			}
			if t.To == reaction.None {
				err = tx.Delete(&models.Reaction{}, existing.ID).Error
			} else {
				// a flip is a fresh reaction, so reacted_at moves with it
				err = tx.Model(&existing).Updates(map[string]any{
					"kind":       t.To,
					"created_at": tx.NowFunc(),
				}).Error
			}
			if err != nil {
				return err
			}
			result = t
			return nil
		}
		return fmt.Errorf("reaction on review %d kept changing underneath", reviewID)
	})
	if err != nil {
		return reaction.Transition{}, fmt.Errorf("toggle reaction: %w", err)
	}
	return result, nil
}

// ListReactors returns everyone holding a reaction on the review, newest
// first. The caller splits the list by kind.
func (r *reactionRepository) ListReactors(ctx context.Context, reviewID int64) ([]models.Reactor, error) {
	rows := make([]models.Reactor, 0)
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("reactions.user_id, users.username, reactions.kind, reactions.created_at AS reacted_at").
		Joins("JOIN users ON users.id = reactions.user_id").
		Where("reactions.review_id = ?", reviewID).
		Order("reactions.created_at DESC, reactions.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list reactors: %w", err)
	}
	return rows, nil
}
