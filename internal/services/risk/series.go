package risk

import (
	"RiskLens/internal/domain/models"
	"RiskLens/internal/services/features"
)

// BuildSeries scores obs and attaches the auxiliary arrays the aggregator
// pools across entities.
func BuildSeries(e models.TrackedEntity, obs []models.DailyObservation, src models.SeriesSource) models.EntitySeries {
	return models.EntitySeries{
		ID:           e.ID,
		Symbol:       e.Symbol,
		DisplayName:  e.DisplayName,
		Sector:       e.Sector,
		Source:       src,
		Observations: ScoreSeries(obs),
		Auxiliary: models.Auxiliary{
			Volumes:             features.Volumes(obs),
			DailyPercentChanges: features.DailyPercentChanges(obs),
		},
	}
}
