package models

import "time"

// TrackedEntity is one configured company.
type TrackedEntity struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	DisplayName string `json:"name"`
	Sector      string `json:"sector"`
}

// Shocks are macro shocks in percent, e.g. InterestRate 5 means +5%.
type Shocks struct {
	InterestRate   float64 `json:"interestRate"`
	FX             float64 `json:"fx"`
	CommodityPrice float64 `json:"commodityPrice"`
}

// IsZero reports whether no shock is applied.
func (s Shocks) IsZero() bool {
	return s.InterestRate == 0 && s.FX == 0 && s.CommodityPrice == 0
}

// ScenarioRequest is the body of POST /api/scenario. Bounds mirror the
// dashboard sliders.
type ScenarioRequest struct {
	InterestRate   float64            `json:"interestRate" validate:"gte=-5,lte=5"`
	FX             float64            `json:"fx" validate:"gte=-10,lte=10"`
	CommodityPrice float64            `json:"commodityPrice" validate:"gte=-20,lte=20"`
	Snapshot       *AggregateSnapshot `json:"snapshot,omitempty" validate:"-"`
}

func (r *ScenarioRequest) Shocks() Shocks {
	return Shocks{InterestRate: r.InterestRate, FX: r.FX, CommodityPrice: r.CommodityPrice}
}

// SnapshotRequest is the query of GET /api/snapshot.
type SnapshotRequest struct {
	Refresh bool `query:"refresh" json:"refresh"`
}

// InsightsInput is the prompt payload for the text generator.
type InsightsInput struct {
	RiskScoreChange     int `json:"riskScoreChange" validate:"gte=-100,lte=100"`
	VolatilityImpact    int `json:"volatilityImpact" validate:"gte=0,lte=100"`
	MacroeconomicImpact int `json:"macroeconomicImpact" validate:"gte=0,lte=100"`
	SentimentImpact     int `json:"sentimentImpact" validate:"gte=0,lte=100"`
	LiquidityImpact     int `json:"liquidityImpact" validate:"gte=0,lte=100"`
}

// InsightsInputFrom reads the prompt payload off a snapshot.
func InsightsInputFrom(s *AggregateSnapshot) InsightsInput {
	return InsightsInput{
		RiskScoreChange:     s.RiskScoreChange,
		VolatilityImpact:    s.DriverPercentage(DriverVolatility),
		MacroeconomicImpact: s.DriverPercentage(DriverMacroeconomic),
		SentimentImpact:     s.DriverPercentage(DriverSentiment),
		LiquidityImpact:     s.DriverPercentage(DriverLiquidity),
	}
}

// Article is one news item as returned by the news provider.
type Article struct {
	Title            string
	URL              string
	Source           string
	PublishedAt      time.Time
	Topics           []string
	OverallSentiment float64
	TickerSentiment  []TickerSentiment
}

// TickerSentiment is the provider's relevance/polarity pair for a ticker.
type TickerSentiment struct {
	Ticker    string
	Relevance float64
	Score     float64
}
