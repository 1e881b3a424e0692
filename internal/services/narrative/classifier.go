package narrative

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"RiskLens/internal/domain/models"
)

// Rule maps a topic tag or headline word to a factor. Headline words match
// the keyword or one of Forms exactly; there is no stemming.
type Rule struct {
	Keyword string
	Forms   []string
	Factor  models.NarrativeFactor
	// HeadlineOnly rules never match topic tags.
	HeadlineOnly bool
}

// DefaultRules is evaluated top to bottom; the first match wins.
var DefaultRules = []Rule{
	{Keyword: "economy_monetary", Factor: models.FactorPolicy},
	{Keyword: "economy_fiscal", Factor: models.FactorPolicy},
	{Keyword: "geopolitical", Forms: []string{"geopolitics"}, Factor: models.FactorGeopolitical, HeadlineOnly: true},
	{Keyword: "sanction", Forms: []string{"sanctions", "sanctioned"}, Factor: models.FactorGeopolitical, HeadlineOnly: true},
	{Keyword: "tariff", Forms: []string{"tariffs"}, Factor: models.FactorGeopolitical, HeadlineOnly: true},
	{Keyword: "war", Forms: []string{"wars", "warfare", "wartime"}, Factor: models.FactorGeopolitical, HeadlineOnly: true},
	{Keyword: "economy_macro", Factor: models.FactorEconomic},
	{Keyword: "financial_markets", Factor: models.FactorMarket},
	{Keyword: "mergers_and_acquisitions", Factor: models.FactorLiquidity},
	{Keyword: "ipo", Forms: []string{"ipos"}, Factor: models.FactorLiquidity},
	{Keyword: "finance", Factor: models.FactorFinance},
	{Keyword: "technology", Factor: models.FactorTechnology},
	{Keyword: "blockchain", Factor: models.FactorTechnology},
}

var narrativeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("risklens/narratives"))

type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Factor returns the factor of the first matching rule, or Market.
func (c *Classifier) Factor(topics []string, headline string) models.NarrativeFactor {
	lowerTopics := make([]string, len(topics))
	for i, t := range topics {
		lowerTopics[i] = strings.ToLower(strings.TrimSpace(t))
	}
	words := headlineWords(headline)
	for _, r := range c.rules {
		kw := strings.ToLower(r.Keyword)
		if !r.HeadlineOnly {
			for _, t := range lowerTopics {
				if t == kw {
					return r.Factor
				}
			}
		}
		if _, ok := words[kw]; ok {
			return r.Factor
		}
		for _, f := range r.Forms {
			if _, ok := words[strings.ToLower(f)]; ok {
				return r.Factor
			}
		}
	}
	return models.FactorMarket
}

// Classify turns articles into narrative items in input order.
func (c *Classifier) Classify(articles []models.Article) []models.NarrativeItem {
	out := make([]models.NarrativeItem, 0, len(articles))
	for _, a := range articles {
		key := a.URL
		if key == "" {
			key = a.Title
		}
		item := models.NarrativeItem{
			ID:             uuid.NewSHA1(narrativeNamespace, []byte(key)).String(),
			Headline:       a.Title,
			SentimentScore: a.OverallSentiment,
			Factor:         c.Factor(a.Topics, a.Title),
			URL:            a.URL,
			Source:         a.Source,
		}
		if !a.PublishedAt.IsZero() {
			item.PublishedAt = a.PublishedAt.Format(time.RFC3339)
		}
		out = append(out, item)
	}
	return out
}

// headlineWords lower-cases and splits on anything that is not a letter,
// digit or underscore.
func headlineWords(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}
