package risk

import (
	"math"

	"RiskLens/internal/domain/models"
)

// DateLayout is the label format of ScoredObservation dates.
const DateLayout = "2006-01-02"

// Normalize maps price onto an inverted 0..100 scale within [min, max]:
// the window low scores 100, the window high scores 0. A flat window
// (min == max) scores exactly 50.
func Normalize(price, min, max float64) int {
	if max == min {
		return 50
	}
	v := math.Round((1 - (price-min)/(max-min)) * 100)
	return int(clamp(v, 0, 100))
}

// ScoreSeries scores every observation against the window's own min/max.
// Scores are relative to this window only.
func ScoreSeries(obs []models.DailyObservation) []models.ScoredObservation {
	if len(obs) == 0 {
		return nil
	}
	lo, hi := obs[0].Close, obs[0].Close
	for _, o := range obs[1:] {
		lo = math.Min(lo, o.Close)
		hi = math.Max(hi, o.Close)
	}
	out := make([]models.ScoredObservation, len(obs))
	for i, o := range obs {
		out[i] = models.ScoredObservation{
			Date:  o.Date.Format(DateLayout),
			Score: Normalize(o.Close, lo, hi),
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
