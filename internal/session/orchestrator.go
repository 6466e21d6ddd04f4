// Package session coordinates one conversation turn end to end: transcript
// resolution, quota enforcement, backend dispatch, streaming, and the final
// atomic commit.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimasprs/obrolan/internal/backend"
	"github.com/dimasprs/obrolan/internal/logger"
	"github.com/dimasprs/obrolan/internal/models"
	"github.com/dimasprs/obrolan/internal/store"
	"github.com/dimasprs/obrolan/internal/title"
)

// DefaultImagePrompt substitutes for the user's text when a turn carries
// only an image. It is recorded as the user's turn text.
const DefaultImagePrompt = "Jelaskan gambar ini secara detail."

const (
	defaultTemperature = 0.7
	minTemperature     = 0.0
	maxTemperature     = 1.0
)

// TurnRequest is one inbound user turn.
type TurnRequest struct {
	ConversationID string
	Text           string
	Image          []byte
	ImageMIME      string
	Temperature    *float32
	BackendID      string
}

// Sink receives reply fragments as they arrive from the backend.
type Sink interface {
	Write(chunk string) error
}

// Ledger is the quota surface the orchestrator needs.
type Ledger interface {
	CheckAndReserve(ctx context.Context, user *models.User, estimated int64) error
}

type Orchestrator struct {
	transcripts store.TranscriptStore
	ledger      Ledger
	backends    *backend.Registry
	convLocks   keyedMutex
}

func NewOrchestrator(transcripts store.TranscriptStore, ledger Ledger, backends *backend.Registry) *Orchestrator {
	return &Orchestrator{
		transcripts: transcripts,
		ledger:      ledger,
		backends:    backends,
	}
}

// StreamTurn runs one turn to completion. Fragments are forwarded to sink
// as they arrive; nothing durable changes until the reply is complete, at
// which point the transcript append and the quota commit land in one
// transaction. A failure before or during streaming leaves the stored log
// untouched.
func (o *Orchestrator) StreamTurn(ctx context.Context, user *models.User, req *TurnRequest, sink Sink) error {
	if req.Text == "" && len(req.Image) == 0 {
		return ErrEmptyTurn
	}

	b, err := o.backends.Get(req.BackendID)
	if err != nil {
		return err
	}

	// Turns on the same conversation are serialized so the full-log
	// overwrite cannot drop a concurrent turn.
	unlock := o.convLocks.lock(req.ConversationID)
	defer unlock()

	conv, isNew, err := o.transcripts.LoadOrCreate(ctx, req.ConversationID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve conversation: %w", err)
	}

	text := req.Text
	if text == "" {
		text = DefaultImagePrompt
	}

	outbound := &backend.Request{
		History:     conv.Log,
		Text:        text,
		Image:       req.Image,
		ImageMIME:   req.ImageMIME,
		Temperature: clampTemperature(req.Temperature),
	}

	// A zero estimate marks the backend as unmetered; the ledger is not
	// consulted at all in that case.
	if estimated := b.EstimateCost(outbound); estimated > 0 {
		if err := o.ledger.CheckAndReserve(ctx, user, estimated); err != nil {
			return err
		}
	}

	var full strings.Builder
	actualCost, err := b.Generate(ctx, outbound, func(chunk string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink.Write(chunk); err != nil {
			return err
		}
		full.WriteString(chunk)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			// Transport disconnected mid-stream: stop pulling and skip
			// persistence rather than record a partial reply as complete.
			return ctx.Err()
		}
		if errors.Is(err, backend.ErrImageInput) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	userMsg := models.Message{Role: models.RoleUser, Parts: []string{text}}
	modelMsg := models.Message{Role: models.RoleModel, Parts: []string{full.String()}}

	var newTitle string
	if isNew {
		newTitle = title.Derive(text)
	}

	// The caller already has the complete reply, so finalize even if the
	// transport drops right at the end.
	finalizeCtx := context.WithoutCancel(ctx)
	if err := o.transcripts.CommitTurn(finalizeCtx, conv, userMsg, modelMsg, newTitle, actualCost); err != nil {
		logger.Log.Error("turn streamed but not persisted",
			"conversation_id", conv.ID,
			"user_id", user.ID,
			"error", err,
		)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return nil
}

func clampTemperature(t *float32) float32 {
	if t == nil {
		return defaultTemperature
	}
	if *t < minTemperature {
		return minTemperature
	}
	if *t > maxTemperature {
		return maxTemperature
	}
	return *t
}
