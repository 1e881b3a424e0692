package alphavantage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/repository"
	"RiskLens/pkg/util"
)

// NewsClient serves the news sentiment feed under its own credential.
type NewsClient struct {
	*Client
	limit int
}

var _ repository.NewsProvider = (*NewsClient)(nil)

func NewNewsClient(cfg Config, limit int, opts ...Option) *NewsClient {
	if cfg.Name == "" {
		cfg.Name = "news"
	}
	return &NewsClient{Client: newClient(cfg, opts...), limit: limit}
}

type newsTopic struct {
	Topic string `json:"topic"`
}

type newsTicker struct {
	Ticker    string `json:"ticker"`
	Relevance string `json:"relevance_score"`
	Score     string `json:"ticker_sentiment_score"`
}

type newsItem struct {
	Title            string          `json:"title"`
	URL              string          `json:"url"`
	Source           string          `json:"source"`
	TimePublished    string          `json:"time_published"`
	Topics           []newsTopic     `json:"topics"`
	OverallSentiment decimal.Decimal `json:"overall_sentiment_score"`
	TickerSentiment  []newsTicker    `json:"ticker_sentiment"`
}

type newsResponse struct {
	Feed *[]newsItem `json:"feed"`
}

// Articles returns at most limit articles for tickers. Topic labels are
// normalised to snake case, e.g. "Economy - Monetary" -> economy_monetary.
func (c *NewsClient) Articles(ctx context.Context, tickers []string) ([]models.Article, error) {
	params := map[string]string{"sort": "LATEST"}
	if len(tickers) > 0 {
		params["tickers"] = strings.Join(tickers, ",")
	}
	if c.limit > 0 {
		params["limit"] = strconv.Itoa(c.limit)
	}

	var resp newsResponse
	if err := c.query(ctx, "NEWS_SENTIMENT", params, &resp); err != nil {
		return nil, err
	}
	if resp.Feed == nil {
		return nil, fmt.Errorf("%s NEWS_SENTIMENT: %w: missing feed", c.name, repository.ErrMalformedPayload)
	}

	items := *resp.Feed
	if c.limit > 0 && len(items) > c.limit {
		items = items[:c.limit]
	}
	out := make([]models.Article, 0, len(items))
	for _, it := range items {
		a := models.Article{
			Title:            strings.TrimSpace(it.Title),
			URL:              it.URL,
			Source:           it.Source,
			OverallSentiment: it.OverallSentiment.InexactFloat64(),
		}
		if t, ok := util.ParseTime(it.TimePublished); ok {
			a.PublishedAt = t.UTC()
		}
		for _, t := range it.Topics {
			a.Topics = append(a.Topics, NormalizeTopic(t.Topic))
		}
		for _, ts := range it.TickerSentiment {
			rel, err1 := decimal.NewFromString(ts.Relevance)
			score, err2 := decimal.NewFromString(ts.Score)
			if err1 != nil || err2 != nil {
				continue
			}
			a.TickerSentiment = append(a.TickerSentiment, models.TickerSentiment{
				Ticker:    ts.Ticker,
				Relevance: rel.InexactFloat64(),
				Score:     score.InexactFloat64(),
			})
		}
		out = append(out, a)
	}
	return out, nil
}

// NormalizeTopic maps a display label onto the API's query-parameter form.
func NormalizeTopic(label string) string {
	label = strings.ReplaceAll(strings.ToLower(label), "&", " and ")
	parts := strings.FieldsFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(parts, "_")
}
