package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/service"
)

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiSummarizer struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

var _ service.Summarizer = (*GeminiSummarizer)(nil)

func NewGemini(ctx context.Context, cfg Config) (*GeminiSummarizer, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiSummarizer{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

func (s *GeminiSummarizer) Name() string { return "gemini" }

func (s *GeminiSummarizer) Summarize(ctx context.Context, in models.InsightsInput) (string, error) {
	prompt, err := BuildPrompt(in)
	if err != nil {
		return "", err
	}
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(s.temperature),
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}
	if s.maxTokens > 0 {
		config.MaxOutputTokens = s.maxTokens
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	var out strings.Builder
	if resp != nil {
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				out.WriteString(part.Text)
			}
			if out.Len() > 0 {
				break
			}
		}
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return text, nil
}
