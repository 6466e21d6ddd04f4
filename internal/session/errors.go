package session

import "errors"

var (
	// ErrEmptyTurn rejects a turn with neither text nor image, before any
	// persistence is touched.
	ErrEmptyTurn = errors.New("message or image required")

	// ErrUpstream marks a backend failure before or during streaming; no
	// transcript mutation has been committed.
	ErrUpstream = errors.New("upstream generation failed")

	// ErrPersistence marks a store failure after the full reply was already
	// streamed to the caller. The delivered stream cannot be un-sent; only
	// the durable side is behind.
	ErrPersistence = errors.New("failed to persist completed turn")
)
