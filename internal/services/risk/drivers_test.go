package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskLens/internal/domain/models"
)

func sum(shares []models.DriverShare) int {
	t := 0
	for _, s := range shares {
		t += s.Percentage
	}
	return t
}

func TestShares_ZeroSumFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultDrivers(), Shares(Signals{}))
	assert.Equal(t, DefaultDrivers(), Shares(Signals{Volatility: -1, Liquidity: 0.5}))
	assert.Equal(t, DefaultDrivers(), Shares(Signals{Volatility: math.NaN()}))
}

func TestShares_Order(t *testing.T) {
	got := Shares(Signals{Volatility: 1, Macroeconomic: 1, Sentiment: 1, Liquidity: 1})
	require.Len(t, got, 4)
	assert.Equal(t, models.DriverVolatility, got[0].Name)
	assert.Equal(t, models.DriverMacroeconomic, got[1].Name)
	assert.Equal(t, models.DriverSentiment, got[2].Name)
	assert.Equal(t, models.DriverLiquidity, got[3].Name)
	for _, s := range got {
		assert.Equal(t, 25, s.Percentage)
	}
}

func TestShares_RoundingDriftIsKept(t *testing.T) {
	// each third rounds to 33, total 99
	under := Shares(Signals{Volatility: 1, Macroeconomic: 1, Sentiment: 1})
	assert.Equal(t, 99, sum(under))

	// 12.5 and 37.5 round half away from zero: 13+13+38+38
	over := Shares(Signals{Volatility: 1, Macroeconomic: 1, Sentiment: 3, Liquidity: 3})
	assert.Equal(t, 102, sum(over))
	assert.Equal(t, []int{13, 13, 38, 38}, []int{
		over[0].Percentage, over[1].Percentage, over[2].Percentage, over[3].Percentage,
	})
}

func TestShares_TotalWithinDrift(t *testing.T) {
	inputs := []Signals{
		{Volatility: 2.1, Macroeconomic: 5.33, Sentiment: 10, Liquidity: 14.2},
		{Volatility: 0.7, Macroeconomic: 5, Sentiment: 0.01, Liquidity: 16},
		{Volatility: 123, Macroeconomic: 4.5, Sentiment: 44, Liquidity: 9},
	}
	for _, in := range inputs {
		total := sum(Shares(in))
		assert.GreaterOrEqual(t, total, 98)
		assert.LessOrEqual(t, total, 102)
	}
}

func TestComputeSignals_Fallbacks(t *testing.T) {
	s := ComputeSignals(nil, nil, nil)
	assert.Equal(t, 0.0, s.Volatility)
	assert.Equal(t, 0.0, s.Liquidity)
	assert.Equal(t, MacroFallback, s.Macroeconomic)
	assert.Equal(t, SentimentFallback, s.Sentiment)

	macro, sent := 4.33, 7.5
	es := []models.EntitySeries{{Auxiliary: models.Auxiliary{
		DailyPercentChanges: []float64{10, -10},
		Volumes:             []float64{math.E, math.E},
	}}}
	s = ComputeSignals(es, &macro, &sent)
	assert.InDelta(t, math.Sqrt(200), s.Volatility, 1e-9)
	assert.InDelta(t, 1.0, s.Liquidity, 1e-9)
	assert.Equal(t, 4.33, s.Macroeconomic)
	assert.Equal(t, 7.5, s.Sentiment)
}

func TestSentimentSignal(t *testing.T) {
	articles := []models.Article{
		{TickerSentiment: []models.TickerSentiment{
			{Ticker: "AAPL", Relevance: 0.5, Score: -0.4},
			{Ticker: "MSFT", Relevance: 1, Score: 1},
		}},
		{TickerSentiment: []models.TickerSentiment{
			{Ticker: "jpm", Relevance: 1, Score: -0.2},
		}},
	}
	got, ok := SentimentSignal(articles, []string{"AAPL", "JPM"})
	require.True(t, ok)
	// mean(-0.2, -0.2) = -0.2 -> 20
	assert.InDelta(t, 20.0, got, 1e-9)

	_, ok = SentimentSignal(articles, []string{"XOM"})
	assert.False(t, ok)
}
