package backend

import (
	"context"
	"fmt"

	"github.com/dimasprs/obrolan/internal/models"
	"google.golang.org/genai"
)

// imageUnits is the flat cost charged for an inline image in a request.
const imageUnits = 258

type Gemini struct {
	client *genai.Client
	model  string
}

type GeminiOption func(*Gemini) error

func NewGemini(apiKey string, opts ...GeminiOption) (*Gemini, error) {
	ctx := context.Background()
	var cfg *genai.ClientConfig
	if apiKey != "" {
		cfg = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g := &Gemini{
		client: client,
		model:  "gemini-2.5-flash",
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("failed to apply options: %w", err)
		}
	}
	return g, nil
}

func WithModel(model string) GeminiOption {
	return func(g *Gemini) error {
		g.model = model
		return nil
	}
}

func (g *Gemini) Name() string {
	return g.model
}

func (g *Gemini) EstimateCost(req *Request) int64 {
	cost := historyCost(req.History) + TextCost(req.Text)
	if len(req.Image) > 0 {
		cost += imageUnits
	}
	return cost
}

func (g *Gemini) Generate(ctx context.Context, req *Request, emit func(chunk string) error) (int64, error) {
	contents := g.buildContents(req)
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}

	var actual int64
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, cfg) {
		if err != nil {
			return actual, fmt.Errorf("failed to stream content: %w", err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		actual += TextCost(chunk)
		if err := emit(chunk); err != nil {
			return actual, err
		}
	}
	return actual, nil
}

func (g *Gemini) buildContents(req *Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, msg := range req.History {
		parts := make([]*genai.Part, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			parts = append(parts, genai.NewPartFromText(p))
		}
		role := genai.RoleUser
		if msg.Role == models.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	var parts []*genai.Part
	if len(req.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.ImageMIME))
	}
	if req.Text != "" {
		parts = append(parts, genai.NewPartFromText(req.Text))
	}
	contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})
	return contents
}
