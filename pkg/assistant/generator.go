package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/wajiddaudtamboli/careercompass/pkg/db"
)

const DefaultModel = "gemini-1.5-flash"

// ErrOffline is returned by generators that have no model behind them
var ErrOffline = errors.New("assistant is offline")

// Generator turns a prompt into text
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if modelName == "" {
		modelName = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	temp := float32(0.4)
	model.Temperature = &temp
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response from model")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("empty response from model")
	}
	return out, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

// Offline answers every prompt with ErrOffline
type Offline struct{}

func (Offline) Name() string { return "offline" }

func (Offline) Generate(context.Context, string) (string, error) {
	return "", ErrOffline
}

func (Offline) Close() error { return nil }

// FromKey builds a Gemini generator, or Offline when the key is missing or a
// placeholder. A client that cannot be built is reported and replaced by Offline.
func FromKey(ctx context.Context, apiKey, modelName string) (Generator, error) {
	if strings.TrimSpace(apiKey) == "" || db.IsPlaceholder(apiKey) {
		return Offline{}, nil
	}
	g, err := NewGemini(ctx, apiKey, modelName)
	if err != nil {
		return Offline{}, err
	}
	return g, nil
}
