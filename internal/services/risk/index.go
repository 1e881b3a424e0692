package risk

import (
	"math"

	"RiskLens/internal/domain/models"
)

// Index returns the rounded mean of the latest scores, its change against
// the rounded mean of the previous scores, and the gauge band.
func Index(entities []models.EntitySeries) (index, change int, level models.RiskLevel) {
	var latestSum, prevSum float64
	var nLatest, nPrev int
	for _, e := range entities {
		n := len(e.Observations)
		if n == 0 {
			continue
		}
		latestSum += float64(e.Observations[n-1].Score)
		nLatest++
		if n >= 2 {
			prevSum += float64(e.Observations[n-2].Score)
			nPrev++
		}
	}
	if nLatest == 0 {
		return 0, 0, models.RiskLow
	}
	index = int(math.Round(latestSum / float64(nLatest)))
	if nPrev > 0 {
		change = index - int(math.Round(prevSum/float64(nPrev)))
	}
	return index, change, Level(index)
}

// Level bands a 0..100 index: >= 70 high, >= 40 elevated, else low.
func Level(index int) models.RiskLevel {
	switch {
	case index >= 70:
		return models.RiskHigh
	case index >= 40:
		return models.RiskElevated
	default:
		return models.RiskLow
	}
}
