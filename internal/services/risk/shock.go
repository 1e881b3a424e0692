package risk

import (
	"math"

	"RiskLens/internal/domain/models"
)

// SectorMultiplier returns the score multiplier a sector receives under the
// given shocks. Unlisted sectors are unaffected.
func SectorMultiplier(sector string, s models.Shocks) float64 {
	switch sector {
	case "Financials":
		return 1 + s.InterestRate/100
	case "Industrials", "Energy":
		return 1 + s.CommodityPrice/100
	case "Consumer Staples":
		return 1 + s.FX/100
	default:
		return 1
	}
}

// ApplyShock returns a copy of snap with every historical score scaled by
// its sector multiplier, clamped to [0,100] and rounded. Zero shocks return
// identical scores. The input is never modified.
func ApplyShock(snap *models.AggregateSnapshot, s models.Shocks) *models.AggregateSnapshot {
	if snap == nil {
		return nil
	}
	out := *snap
	out.Entities = make([]models.EntitySeries, len(snap.Entities))
	for i, e := range snap.Entities {
		mult := SectorMultiplier(e.Sector, s)
		obs := make([]models.ScoredObservation, len(e.Observations))
		for j, o := range e.Observations {
			obs[j] = o
			if mult != 1 {
				obs[j].Score = int(math.Round(clamp(float64(o.Score)*mult, 0, 100)))
			}
		}
		e.Observations = obs
		out.Entities[i] = e
	}
	out.Drivers = append([]models.DriverShare(nil), snap.Drivers...)
	out.Alerts = append([]models.Alert(nil), snap.Alerts...)
	out.Narratives = append([]models.NarrativeItem(nil), snap.Narratives...)
	out.RiskIndex, out.RiskScoreChange, out.RiskLevel = Index(out.Entities)
	return &out
}
