package alphavantage

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/repository"
	"RiskLens/pkg/util"
)

// PriceClient serves daily price series and the macro indicator. Both share
// one credential, so they share one pacer.
type PriceClient struct {
	*Client
	historyDays int
}

var (
	_ repository.PriceProvider = (*PriceClient)(nil)
	_ repository.MacroProvider = (*PriceClient)(nil)
)

func NewPriceClient(cfg Config, historyDays int, opts ...Option) *PriceClient {
	if historyDays <= 0 {
		historyDays = 90
	}
	return &PriceClient{Client: newClient(cfg, opts...), historyDays: historyDays}
}

type dailyBar struct {
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type dailyResponse struct {
	Series map[string]dailyBar `json:"Time Series (Daily)"`
}

// DailySeries returns up to historyDays observations, oldest first.
func (c *PriceClient) DailySeries(ctx context.Context, symbol string) ([]models.DailyObservation, error) {
	var resp dailyResponse
	err := c.query(ctx, "TIME_SERIES_DAILY", map[string]string{
		"symbol":     symbol,
		"outputsize": "compact",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("%s %s: %w: empty series", c.name, symbol, repository.ErrMalformedPayload)
	}

	out := make([]models.DailyObservation, 0, len(resp.Series))
	for day, bar := range resp.Series {
		obs, err := decodeBar(day, bar)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", c.name, symbol, err)
		}
		out = append(out, obs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if len(out) > c.historyDays {
		out = out[len(out)-c.historyDays:]
	}
	return out, nil
}

func decodeBar(day string, bar dailyBar) (models.DailyObservation, error) {
	d, ok := util.ParseDay(day)
	if !ok {
		return models.DailyObservation{}, fmt.Errorf("%w: bad date %q", repository.ErrMalformedPayload, day)
	}
	closePx, err := decimal.NewFromString(bar.Close)
	if err != nil {
		return models.DailyObservation{}, fmt.Errorf("%w: close %q", repository.ErrMalformedPayload, bar.Close)
	}
	vol, err := decimal.NewFromString(bar.Volume)
	if err != nil {
		return models.DailyObservation{}, fmt.Errorf("%w: volume %q", repository.ErrMalformedPayload, bar.Volume)
	}
	return models.DailyObservation{
		Date:   d,
		Close:  closePx.InexactFloat64(),
		Volume: vol.InexactFloat64(),
	}, nil
}

type macroPoint struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type macroResponse struct {
	Name string       `json:"name"`
	Data []macroPoint `json:"data"`
}

// LatestMacro returns the most recent effective federal funds rate.
// Points without a numeric value (the API uses ".") are skipped.
func (c *PriceClient) LatestMacro(ctx context.Context) (float64, error) {
	var resp macroResponse
	if err := c.query(ctx, "FEDERAL_FUNDS_RATE", map[string]string{"interval": "monthly"}, &resp); err != nil {
		return 0, err
	}

	var (
		latestDay string
		latest    decimal.Decimal
		found     bool
	)
	for _, p := range resp.Data {
		v, err := decimal.NewFromString(p.Value)
		if err != nil {
			continue
		}
		if !found || p.Date > latestDay {
			latestDay, latest, found = p.Date, v, true
		}
	}
	if !found {
		return 0, fmt.Errorf("%s FEDERAL_FUNDS_RATE: %w: no values", c.name, repository.ErrMalformedPayload)
	}
	return latest.InexactFloat64(), nil
}
