package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Request is one constrained generation call.
type Request struct {
	Model           string
	Prompt          string
	Schema          *genai.Schema
	SearchGrounding bool
}

// Generator returns the raw response text of a generation call.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

type genaiGenerator struct {
	client *genai.Client
}

// NewGenAIGenerator builds a Generator backed by the Gemini API.
func NewGenAIGenerator(ctx context.Context, apiKey string, httpClient *http.Client) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &genaiGenerator{client: client}, nil
}

func (g *genaiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
		Temperature:      genai.Ptr[float32](0),
	}
	if req.SearchGrounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// responseSchema constrains the model to an array of matchdays.
func responseSchema() *genai.Schema {
	goal := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"minute": {Type: genai.TypeNumber},
			"player": {Type: genai.TypeString},
			"team":   {Type: genai.TypeString},
		},
	}
	match := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":        {Type: genai.TypeString},
			"date":      {Type: genai.TypeString},
			"homeTeam":  {Type: genai.TypeString},
			"awayTeam":  {Type: genai.TypeString},
			"homeScore": {Type: genai.TypeNumber},
			"awayScore": {Type: genai.TypeNumber},
			"status":    {Type: genai.TypeString},
			"goals":     {Type: genai.TypeArray, Items: goal},
		},
		Required: []string{"homeTeam", "awayTeam", "homeScore", "awayScore", "date"},
	}
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"matchday": {Type: genai.TypeNumber},
				"matches":  {Type: genai.TypeArray, Items: match},
			},
			Required: []string{"matchday", "matches"},
		},
	}
}
