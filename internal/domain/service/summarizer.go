package service

import (
	"context"
	"errors"

	"RiskLens/internal/domain/models"
)

// ErrSummarizerDisabled is returned when no text generator is configured.
var ErrSummarizerDisabled = errors.New("summarizer disabled")

// Summarizer turns driver impacts into a short plain-English narrative.
type Summarizer interface {
	Summarize(ctx context.Context, in models.InsightsInput) (string, error)
	Name() string
}
