// Package title derives a conversation's display label from its first
// substantive user turn.
package title

import "unicode/utf8"

const (
	// Placeholder is used while a conversation has no substantive turn.
	Placeholder = "Percakapan Baru"

	maxRunes = 50
	ellipsis = "..."
)

// Derive truncates the first user-turn text to a bounded length, appending
// an ellipsis marker when cut. Empty input yields the placeholder.
func Derive(firstUserTurn string) string {
	if firstUserTurn == "" {
		return Placeholder
	}
	if utf8.RuneCountInString(firstUserTurn) <= maxRunes {
		return firstUserTurn
	}
	runes := []rune(firstUserTurn)
	return string(runes[:maxRunes]) + ellipsis
}
