package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dimasprs/obrolan/internal/models"
	"github.com/dimasprs/obrolan/internal/title"
	"github.com/uptrace/bun"
)

type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InitializeDatabase(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*models.ConversationDB)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create conversations table: %w", err)
	}

	_, err = s.db.NewCreateIndex().
		Model((*models.ConversationDB)(nil)).
		Index("idx_conversations_user_id").
		Column("user_id", "created_at").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user_id index: %w", err)
	}

	return nil
}

func (s *PostgresStore) LoadOrCreate(ctx context.Context, conversationID, userID string) (*models.Conversation, bool, error) {
	convDB := new(models.ConversationDB)
	err := s.db.NewSelect().
		Model(convDB).
		Where("id = ?", conversationID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err == nil {
		conv := convDB.ToConversation()
		conv.Log = ensureSeeded(conv.Log)
		return conv, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to load conversation: %w", err)
	}

	now := time.Now()
	conv := &models.Conversation{
		ID:        conversationID,
		UserID:    userID,
		Title:     title.Placeholder,
		Log:       seedPreamble(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return conv, true, nil
}

func (s *PostgresStore) CommitTurn(ctx context.Context, conv *models.Conversation, userMsg, modelMsg models.Message, newTitle string, actualCost int64) error {
	conv.Log = append(conv.Log, userMsg, modelMsg)
	if newTitle != "" {
		conv.Title = newTitle
	}
	conv.UpdatedAt = time.Now()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		convDB := models.ConversationFromDomain(conv)
		_, err := tx.NewInsert().
			Model(convDB).
			On("CONFLICT (id) DO UPDATE").
			Set("log = EXCLUDED.log").
			Set("title = EXCLUDED.title").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save conversation: %w", err)
		}

		if actualCost > 0 {
			_, err = tx.NewUpdate().
				Model((*models.UserDB)(nil)).
				Set("quota_used_today = quota_used_today + ?", actualCost).
				Set("updated_at = ?", time.Now()).
				Where("id = ?", conv.UserID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to commit quota: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) History(ctx context.Context, conversationID, userID string) ([]models.Message, error) {
	convDB := new(models.ConversationDB)
	err := s.db.NewSelect().
		Model(convDB).
		Where("id = ?", conversationID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return visibleLog(convDB.Log), nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	var convs []models.ConversationDB
	err := s.db.NewSelect().
		Model(&convs).
		Column("id", "title").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		summaries = append(summaries, models.ConversationSummary{ID: c.ID, Title: c.Title})
	}
	return summaries, nil
}
