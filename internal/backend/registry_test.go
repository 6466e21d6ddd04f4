package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/dimasprs/obrolan/internal/models"
)

type stubBackend struct {
	name string
}

func (s *stubBackend) Name() string                  { return s.name }
func (s *stubBackend) EstimateCost(_ *Request) int64 { return 0 }
func (s *stubBackend) Generate(_ context.Context, _ *Request, _ func(string) error) (int64, error) {
	return 0, nil
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry("gemini")
	gemini := &stubBackend{name: "gemini"}
	deepseek := &stubBackend{name: "deepseek"}
	reg.Register("gemini", gemini)
	reg.Register("deepseek", deepseek)

	b, err := reg.Get("deepseek")
	if err != nil {
		t.Fatalf("Get(deepseek) returned error: %v", err)
	}
	if b.Name() != "deepseek" {
		t.Errorf("Get(deepseek) resolved %s", b.Name())
	}
}

func TestRegistryDefaultsOnEmptyID(t *testing.T) {
	reg := NewRegistry("gemini")
	reg.Register("gemini", &stubBackend{name: "gemini"})

	b, err := reg.Get("")
	if err != nil {
		t.Fatalf("Get with empty id returned error: %v", err)
	}
	if b.Name() != "gemini" {
		t.Errorf("empty id resolved %s, want the default", b.Name())
	}
}

func TestRegistryUnknownID(t *testing.T) {
	reg := NewRegistry("gemini")
	reg.Register("gemini", &stubBackend{name: "gemini"})

	_, err := reg.Get("llama")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Get(llama) error = %v, want ErrUnsupported", err)
	}
}

func TestTextCost(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"halo dunia", 3},
		{"héllo", 2}, // runes, not bytes
	}

	for _, tt := range tests {
		if got := TextCost(tt.in); got != tt.want {
			t.Errorf("TextCost(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHistoryCost(t *testing.T) {
	log := []models.Message{
		{Role: models.RoleUser, Parts: []string{"abcd", "efgh"}},
		{Role: models.RoleModel, Parts: []string{"ab"}},
	}
	if got := historyCost(log); got != 3 {
		t.Errorf("historyCost = %d, want 3", got)
	}
}
