package usecase

import (
	"context"
	"fmt"
	"time"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/service"
	"RiskLens/pkg/logger"
)

// InsightsUseCase produces on-demand analyst text. Failures are returned
// to the caller and never affect snapshot data.
type InsightsUseCase struct {
	summarizer service.Summarizer
	timeout    time.Duration
	log        *logger.Logger
}

func NewInsightsUseCase(s service.Summarizer, timeout time.Duration, log *logger.Logger) *InsightsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &InsightsUseCase{summarizer: s, timeout: timeout, log: log}
}

func (uc *InsightsUseCase) Generate(ctx context.Context, in models.InsightsInput) (string, error) {
	if uc.summarizer == nil {
		return "", service.ErrSummarizerDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	text, err := uc.summarizer.Summarize(ctx, in)
	if err != nil {
		return "", fmt.Errorf("insights via %s: %w", uc.summarizer.Name(), err)
	}
	uc.log.Debug("insights generated", logger.String("summarizer", uc.summarizer.Name()), logger.Int("chars", len(text)))
	return text, nil
}
