package store

import (
	"context"
	"errors"

	"github.com/dimasprs/obrolan/internal/models"
)

var ErrNotFound = errors.New("conversation not found")

// TranscriptStore owns the durable conversation logs. Loads construct
// in-memory state only; nothing is written until CommitTurn, so a denied or
// failed turn leaves no trace.
type TranscriptStore interface {
	// LoadOrCreate returns the conversation for id, constructing a fresh one
	// (with the seeded preamble pair) when none is stored. The second result
	// reports whether the conversation is new, which tells the caller a
	// title still has to be derived.
	LoadOrCreate(ctx context.Context, conversationID, userID string) (*models.Conversation, bool, error)

	// CommitTurn appends the user/model message pair, overwrites the full
	// log, sets the title when one is supplied, and commits the actual
	// generation cost to the owner's quota counter - all in one
	// transaction.
	CommitTurn(ctx context.Context, conv *models.Conversation, userMsg, modelMsg models.Message, title string, actualCost int64) error

	// History returns the log minus the hidden preamble pair. Unknown
	// conversations yield an empty slice, not an error.
	History(ctx context.Context, conversationID, userID string) ([]models.Message, error)

	ListByUser(ctx context.Context, userID string) ([]models.ConversationSummary, error)
}
