// Package backend unifies the upstream generation providers behind one
// streaming contract.
package backend

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/dimasprs/obrolan/internal/models"
)

var (
	ErrUnsupported = errors.New("unsupported backend")

	// ErrImageInput rejects an image turn routed to a text-only backend
	// before any upstream call is made.
	ErrImageInput = errors.New("image input not supported")
)

// Request is the assembled outbound turn: the prior log plus the new user
// content. Image bytes travel only in this request; they are never stored.
type Request struct {
	History     []models.Message
	Text        string
	Image       []byte
	ImageMIME   string
	Temperature float32
}

// Backend is one upstream generation provider.
//
// Generate produces the reply for req, calling emit for every text fragment
// as it arrives, and returns the actual output cost in quota units once the
// fragment sequence is exhausted. Implementations must honor ctx
// cancellation between fragments. A non-streaming provider adapts itself by
// emitting its completed text as a single fragment.
//
// EstimateCost prices the outbound request before the call. A fixed zero
// estimate marks the backend as unmetered.
type Backend interface {
	Name() string
	EstimateCost(req *Request) int64
	Generate(ctx context.Context, req *Request, emit func(chunk string) error) (int64, error)
}

// TextCost converts text length to quota units, one unit per four runes,
// rounded up.
func TextCost(s string) int64 {
	return int64(utf8.RuneCountInString(s)+3) / 4
}

func historyCost(log []models.Message) int64 {
	var total int64
	for _, msg := range log {
		for _, part := range msg.Parts {
			total += TextCost(part)
		}
	}
	return total
}
