package title

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input yields placeholder",
			input: "",
			want:  Placeholder,
		},
		{
			name:  "short text verbatim",
			input: "Apa kabar?",
			want:  "Apa kabar?",
		},
		{
			name:  "exactly max length verbatim",
			input: strings.Repeat("a", 50),
			want:  strings.Repeat("a", 50),
		},
		{
			name:  "over max truncates with marker",
			input: strings.Repeat("a", 51),
			want:  strings.Repeat("a", 50) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.input)
			if got != tt.want {
				t.Errorf("Derive(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeriveMultibyte(t *testing.T) {
	input := strings.Repeat("日", 60)
	got := Derive(input)

	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation marker, got %q", got)
	}
	if utf8.RuneCountInString(strings.TrimSuffix(got, "...")) != 50 {
		t.Errorf("expected 50 runes before marker, got %d", utf8.RuneCountInString(strings.TrimSuffix(got, "...")))
	}
}

func TestDeriveIdempotent(t *testing.T) {
	input := "Jelaskan cara kerja mesin uap"
	if Derive(input) != Derive(input) {
		t.Error("Derive is not idempotent")
	}
}
