package sample

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"RiskLens/internal/domain/models"
	"RiskLens/pkg/util"
)

// basePrices seed the random walk for known symbols; others start at 100.
var basePrices = map[string]float64{
	"AAPL": 185,
	"CAT":  290,
	"JPM":  170,
	"XOM":  105,
	"JNJ":  155,
	"PG":   150,
}

// Series returns a deterministic daily series for symbol ending on end's
// calendar date. The same symbol and end date always yield the same data.
func Series(symbol string, end time.Time, days int) []models.DailyObservation {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	r := rand.New(rand.NewSource(int64(h.Sum64())))

	price, ok := basePrices[symbol]
	if !ok {
		price = 100
	}
	baseVolume := 2e6 + r.Float64()*8e6

	dates := util.LastNDays(end, days)
	out := make([]models.DailyObservation, len(dates))
	for i, d := range dates {
		// +-2.5% daily moves, floored well above zero
		price = math.Max(1, price*(1+(r.Float64()-0.5)*0.05))
		out[i] = models.DailyObservation{
			Date:   d,
			Close:  math.Round(price*100) / 100,
			Volume: math.Round(baseVolume * (0.6 + r.Float64()*0.8)),
		}
	}
	return out
}
