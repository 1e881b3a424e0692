package features

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"RiskLens/internal/domain/models"
)

// DailyPercentChanges computes c_t = (C_t - C_{t-1}) / C_{t-1} * 100.
// It returns a slice of length len(obs)-1, or nil if insufficient data.
// A non-positive previous close yields 0 for that step.
func DailyPercentChanges(obs []models.DailyObservation) []float64 {
	if len(obs) < 2 {
		return nil
	}
	out := make([]float64, 0, len(obs)-1)
	for i := 1; i < len(obs); i++ {
		prev := obs[i-1].Close
		if prev <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (obs[i].Close-prev)/prev*100)
	}
	return out
}

// Volumes extracts the volume column.
func Volumes(obs []models.DailyObservation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Volume
	}
	return out
}

// Volatility is the Bessel-corrected sample standard deviation of pooled
// percent changes; 0 with fewer than two values.
func Volatility(changes []float64) float64 {
	if len(changes) < 2 {
		return 0
	}
	return stat.StdDev(changes, nil)
}

// Liquidity is ln(mean volume); 0 with no volume data or a non-positive mean.
func Liquidity(volumes []float64) float64 {
	if len(volumes) == 0 {
		return 0
	}
	m := stat.Mean(volumes, nil)
	if m <= 0 {
		return 0
	}
	return math.Log(m)
}

// Pool concatenates the auxiliary arrays of every entity.
func Pool(entities []models.EntitySeries) (changes, volumes []float64) {
	for _, e := range entities {
		changes = append(changes, e.Auxiliary.DailyPercentChanges...)
		volumes = append(volumes, e.Auxiliary.Volumes...)
	}
	return changes, volumes
}
