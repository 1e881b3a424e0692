package risk

import (
	"math"
	"strings"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/services/features"
)

const (
	// MacroFallback is used when the macro indicator is unavailable.
	MacroFallback = 5.0
	// SentimentFallback is used when no ticker sentiment is available.
	SentimentFallback = 10.0
	// SentimentScale lifts mean relevance x polarity onto the signal range.
	SentimentScale = 100.0
)

// Signals are the raw driver inputs before renormalisation.
type Signals struct {
	Volatility    float64
	Macroeconomic float64
	Sentiment     float64
	Liquidity     float64
}

// DefaultDrivers is returned when the raw signals cannot be renormalised.
func DefaultDrivers() []models.DriverShare {
	return []models.DriverShare{
		{Name: models.DriverVolatility, Percentage: 40},
		{Name: models.DriverMacroeconomic, Percentage: 25},
		{Name: models.DriverSentiment, Percentage: 20},
		{Name: models.DriverLiquidity, Percentage: 15},
	}
}

// ComputeSignals derives volatility and liquidity from the entities and
// takes macro and sentiment as given. A nil macro or sentiment selects the
// fallback constant.
func ComputeSignals(entities []models.EntitySeries, macro, sentiment *float64) Signals {
	changes, volumes := features.Pool(entities)
	s := Signals{
		Volatility:    features.Volatility(changes),
		Liquidity:     features.Liquidity(volumes),
		Macroeconomic: MacroFallback,
		Sentiment:     SentimentFallback,
	}
	if macro != nil {
		s.Macroeconomic = *macro
	}
	if sentiment != nil {
		s.Sentiment = *sentiment
	}
	return s
}

// Shares renormalises the signals into percentages. Each share is rounded
// independently, so the total may be 98..102; that drift is kept as is.
func Shares(s Signals) []models.DriverShare {
	sum := s.Volatility + s.Macroeconomic + s.Sentiment + s.Liquidity
	if math.IsNaN(sum) || math.IsInf(sum, 0) || sum <= 0 {
		return DefaultDrivers()
	}
	pct := func(v float64) int { return int(math.Round(v / sum * 100)) }
	return []models.DriverShare{
		{Name: models.DriverVolatility, Percentage: pct(s.Volatility)},
		{Name: models.DriverMacroeconomic, Percentage: pct(s.Macroeconomic)},
		{Name: models.DriverSentiment, Percentage: pct(s.Sentiment)},
		{Name: models.DriverLiquidity, Percentage: pct(s.Liquidity)},
	}
}

// SentimentSignal is abs(mean(relevance x score)) x SentimentScale over
// every ticker-sentiment pair for a tracked symbol. ok is false when no
// pair matched.
func SentimentSignal(articles []models.Article, symbols []string) (float64, bool) {
	tracked := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		tracked[strings.ToUpper(s)] = struct{}{}
	}
	var (
		sum float64
		n   int
	)
	for _, a := range articles {
		for _, ts := range a.TickerSentiment {
			if _, ok := tracked[strings.ToUpper(ts.Ticker)]; !ok {
				continue
			}
			sum += ts.Relevance * ts.Score
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return math.Abs(sum/float64(n)) * SentimentScale, true
}
