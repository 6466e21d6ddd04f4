package store

import "github.com/dimasprs/obrolan/internal/models"

// The preamble pair establishes the response-language policy. It is stored
// at the head of every log but never shown to end users.
const (
	preambleInstruction     = "Penting: Kamu harus selalu membalas setiap pertanyaan dalam Bahasa Indonesia, tanpa kecuali."
	preambleAcknowledgement = "Tentu, saya paham. Saya akan selalu membalas dalam Bahasa Indonesia."

	// PreambleLen is the number of synthetic entries at the head of a log.
	PreambleLen = 2
)

func seedPreamble() []models.Message {
	return []models.Message{
		{Role: models.RoleUser, Parts: []string{preambleInstruction}},
		{Role: models.RoleModel, Parts: []string{preambleAcknowledgement}},
	}
}

// ensureSeeded places the preamble pair at the head of an empty log. A log
// that already has entries passes through untouched, so repeated loads never
// stack a second pair.
func ensureSeeded(log []models.Message) []models.Message {
	if len(log) == 0 {
		return seedPreamble()
	}
	return log
}

// visibleLog strips the preamble pair from a stored log.
func visibleLog(log []models.Message) []models.Message {
	if len(log) <= PreambleLen {
		return []models.Message{}
	}
	return log[PreambleLen:]
}
