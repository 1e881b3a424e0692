package usecase

import (
	"context"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/services/risk"
)

// CurrentProvider yields the snapshot scenarios default to.
type CurrentProvider interface {
	Current(ctx context.Context, refresh bool) *models.AggregateSnapshot
}

type ScenarioUseCase struct {
	current CurrentProvider
}

func NewScenarioUseCase(current CurrentProvider) *ScenarioUseCase {
	return &ScenarioUseCase{current: current}
}

// Apply shocks req.Snapshot, or the current snapshot when the request does
// not carry one. The source snapshot is left untouched.
func (uc *ScenarioUseCase) Apply(ctx context.Context, req *models.ScenarioRequest) *models.AggregateSnapshot {
	base := req.Snapshot
	if base == nil {
		base = uc.current.Current(ctx, false)
	}
	return risk.ApplyShock(base, req.Shocks())
}
