package llm

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"RiskLens/internal/domain/models"
)

const systemInstruction = "You are an expert financial analyst. Summarize the factors that are " +
	"influencing risk score changes in a clear and concise plain-English narrative."

var validate = validator.New()

// BuildPrompt renders the driver impacts into the analyst prompt.
func BuildPrompt(in models.InsightsInput) (string, error) {
	if err := validate.Struct(in); err != nil {
		return "", fmt.Errorf("insights input: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Risk Score Change: %d\n", in.RiskScoreChange)
	fmt.Fprintf(&b, "Volatility Impact: %d%%\n", in.VolatilityImpact)
	fmt.Fprintf(&b, "Macroeconomic Impact: %d%%\n", in.MacroeconomicImpact)
	fmt.Fprintf(&b, "Sentiment Impact: %d%%\n", in.SentimentImpact)
	fmt.Fprintf(&b, "Liquidity Impact: %d%%\n", in.LiquidityImpact)
	b.WriteString("\nInsights:")
	return b.String(), nil
}
