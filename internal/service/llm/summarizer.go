package llm

import (
	"context"
	"fmt"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/service"
	"RiskLens/pkg/config"
)

type Config struct {
	Provider    string // none, gemini or claude
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// Disabled is used when no provider or credential is configured.
type Disabled struct{}

var _ service.Summarizer = Disabled{}

func (Disabled) Name() string { return "none" }

func (Disabled) Summarize(context.Context, models.InsightsInput) (string, error) {
	return "", service.ErrSummarizerDisabled
}

// New selects the summarizer for cfg. A missing or placeholder key yields
// Disabled rather than an error.
func New(ctx context.Context, cfg Config) (service.Summarizer, error) {
	if cfg.Provider == "" || cfg.Provider == "none" || config.IsPlaceholderKey(cfg.APIKey) {
		return Disabled{}, nil
	}
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg)
	case "claude":
		return NewClaude(cfg), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}
}
