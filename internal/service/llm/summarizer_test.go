package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/service"
)

var input = models.InsightsInput{
	RiskScoreChange:     -3,
	VolatilityImpact:    41,
	MacroeconomicImpact: 24,
	SentimentImpact:     20,
	LiquidityImpact:     15,
}

func TestBuildPrompt(t *testing.T) {
	got, err := BuildPrompt(input)
	require.NoError(t, err)
	want := "Risk Score Change: -3\n" +
		"Volatility Impact: 41%\n" +
		"Macroeconomic Impact: 24%\n" +
		"Sentiment Impact: 20%\n" +
		"Liquidity Impact: 15%\n" +
		"\nInsights:"
	assert.Equal(t, want, got)
}

func TestBuildPrompt_RejectsOutOfRange(t *testing.T) {
	bad := input
	bad.RiskScoreChange = 150
	_, err := BuildPrompt(bad)
	assert.Error(t, err)
}

func TestNew_Selection(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Config{Provider: "none", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "none", s.Name())

	s, err = New(ctx, Config{Provider: "claude", APIKey: ""})
	require.NoError(t, err)
	assert.Equal(t, "none", s.Name(), "missing key disables")

	s, err = New(ctx, Config{Provider: "claude", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "claude", s.Name())

	_, err = New(ctx, Config{Provider: "other", APIKey: "k"})
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Summarize(context.Background(), input)
	assert.ErrorIs(t, err, service.ErrSummarizerDisabled)
}

func TestClaudeSummarize(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "  Volatility dominates today.  "}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	s := NewClaude(Config{APIKey: "sk-test", BaseURL: srv.URL, MaxTokens: 128})
	got, err := s.Summarize(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Volatility dominates today.", got)
	assert.Equal(t, float64(128), body["max_tokens"])
}

func TestClaudeSummarize_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	s := NewClaude(Config{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := s.Summarize(context.Background(), input)
	assert.Error(t, err)
}
