// Package feedback records thumbs ratings on conversations. Entries are
// append-only.
package feedback

import (
	"context"
	"fmt"

	"github.com/dimasprs/obrolan/internal/models"
	"github.com/uptrace/bun"
)

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	Record(ctx context.Context, fb *models.Feedback) error
}

type FeedbackRepository struct {
	db *bun.DB
}

func NewFeedbackRepository(db *bun.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.FeedbackDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create feedback table: %w", err)
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.FeedbackDB)(nil)).
		Index("idx_feedback_conversation_id").
		Column("conversation_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *FeedbackRepository) Record(ctx context.Context, fb *models.Feedback) error {
	row := &models.FeedbackDB{
		UserID:         fb.UserID,
		ConversationID: fb.ConversationID,
		Rating:         fb.Rating,
		CreatedAt:      fb.CreatedAt,
	}
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}
