package models

import "time"

// DailyObservation is one provider data point, ordered ascending by Date
// within a series.
type DailyObservation struct {
	Date   time.Time
	Close  float64
	Volume float64
}

// ScoredObservation is a DailyObservation mapped onto the 0..100 risk scale.
type ScoredObservation struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Score int    `json:"score"`
}

// SeriesSource tells whether a series came from a live provider or the
// bundled sample set.
type SeriesSource string

const (
	SourceLive   SeriesSource = "live"
	SourceSample SeriesSource = "sample"
)

type Auxiliary struct {
	Volumes             []float64 `json:"volumes"`
	DailyPercentChanges []float64 `json:"dailyPercentChanges"`
}

// EntitySeries is built once per aggregation request and not mutated after.
type EntitySeries struct {
	ID           string              `json:"id"`
	Symbol       string              `json:"symbol"`
	DisplayName  string              `json:"name"`
	Sector       string              `json:"sector"`
	Source       SeriesSource        `json:"source"`
	Observations []ScoredObservation `json:"history"`
	Auxiliary    Auxiliary           `json:"auxiliary"`
}

// LastTwo returns the last two scores; ok is false with fewer than two.
func (e EntitySeries) LastTwo() (previous, latest int, ok bool) {
	n := len(e.Observations)
	if n < 2 {
		return 0, 0, false
	}
	return e.Observations[n-2].Score, e.Observations[n-1].Score, true
}

type DriverName string

const (
	DriverVolatility    DriverName = "Volatility"
	DriverMacroeconomic DriverName = "Macroeconomic"
	DriverSentiment     DriverName = "Sentiment"
	DriverLiquidity     DriverName = "Liquidity"
)

// DriverShare is one slice of the driver breakdown. The four shares of a
// snapshot are rounded independently, so their total may drift off 100 by
// up to two points.
type DriverShare struct {
	Name       DriverName `json:"name"`
	Percentage int        `json:"value"`
}

type AlertTrigger string

const (
	TriggerVolatility    AlertTrigger = "Volatility"
	TriggerMacroeconomic AlertTrigger = "Macroeconomic"
	TriggerSentiment     AlertTrigger = "Sentiment"
)

type Alert struct {
	ID          string       `json:"id"`
	EntityID    string       `json:"entityId"`
	DisplayName string       `json:"company"`
	ScoreDelta  int          `json:"change"`
	Trigger     AlertTrigger `json:"trigger"`
	ObservedAt  string       `json:"timestamp"`
}

type NarrativeFactor string

const (
	FactorLiquidity    NarrativeFactor = "Liquidity"
	FactorMarket       NarrativeFactor = "Market"
	FactorGeopolitical NarrativeFactor = "Geopolitical"
	FactorPolicy       NarrativeFactor = "Policy"
	FactorTechnology   NarrativeFactor = "Technology"
	FactorFinance      NarrativeFactor = "Finance"
	FactorEconomic     NarrativeFactor = "Economic"
)

type NarrativeItem struct {
	ID             string          `json:"id"`
	Headline       string          `json:"headline"`
	SentimentScore float64         `json:"sentiment"`
	Factor         NarrativeFactor `json:"factor"`
	URL            string          `json:"url,omitempty"`
	Source         string          `json:"source,omitempty"`
	PublishedAt    string          `json:"publishedAt,omitempty"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskElevated RiskLevel = "elevated"
	RiskHigh     RiskLevel = "high"
)

// AggregateSnapshot is the response of one aggregation request.
type AggregateSnapshot struct {
	Entities        []EntitySeries  `json:"heatmapData"`
	Drivers         []DriverShare   `json:"driverBreakdown"`
	Alerts          []Alert         `json:"smartAlerts"`
	Narratives      []NarrativeItem `json:"narrativeCards"`
	RiskIndex       int             `json:"riskIndex"`
	RiskScoreChange int             `json:"riskScoreChange"`
	RiskLevel       RiskLevel       `json:"riskLevel"`
	Insights        string          `json:"insights,omitempty"`
	InsightsError   string          `json:"insightsError,omitempty"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}

// DriverPercentage returns the share for name, or 0 if absent.
func (s *AggregateSnapshot) DriverPercentage(name DriverName) int {
	for _, d := range s.Drivers {
		if d.Name == name {
			return d.Percentage
		}
	}
	return 0
}
