package backend

import (
	"context"
	"errors"
	"testing"
)

func TestDeepSeekRejectsImageInput(t *testing.T) {
	d := NewDeepSeek("", "", "deepseek-chat")

	emitted := false
	req := &Request{
		Text:      "Jelaskan gambar ini secara detail.",
		Image:     []byte{0xFF, 0xD8},
		ImageMIME: "image/jpeg",
	}
	_, err := d.Generate(context.Background(), req, func(string) error {
		emitted = true
		return nil
	})

	if !errors.Is(err, ErrImageInput) {
		t.Fatalf("error = %v, want ErrImageInput", err)
	}
	if emitted {
		t.Error("nothing may be emitted for a rejected image turn")
	}
}

func TestDeepSeekIsUnmetered(t *testing.T) {
	d := NewDeepSeek("", "", "deepseek-chat")

	req := &Request{Text: "halo", History: nil}
	if got := d.EstimateCost(req); got != 0 {
		t.Errorf("EstimateCost = %d, want 0", got)
	}
}
