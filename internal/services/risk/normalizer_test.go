package risk

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskLens/internal/domain/models"
)

func TestNormalize_Bounds(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		lo := r.Float64() * 500
		hi := lo + r.Float64()*500
		p := lo - 50 + r.Float64()*(hi-lo+100)
		got := Normalize(p, lo, hi)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestNormalize_FlatWindowIs50(t *testing.T) {
	for _, p := range []float64{0, 1, 42.5, 1e9, -3} {
		assert.Equal(t, 50, Normalize(p, 7, 7))
	}
}

func TestNormalize_Inverted(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  int
	}{
		{"window low is max risk", 90, 100},
		{"window high is min risk", 110, 0},
		{"midpoint", 100, 50},
		{"quarter", 95, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.price, 90, 110))
		})
	}
}

func TestScoreSeries(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	in := []models.DailyObservation{
		{Date: start, Close: 100},
		{Date: start.AddDate(0, 0, 1), Close: 110},
		{Date: start.AddDate(0, 0, 2), Close: 90},
	}
	got := ScoreSeries(in)
	require.Len(t, got, 3)
	assert.Equal(t, []int{50, 0, 100}, []int{got[0].Score, got[1].Score, got[2].Score})
	assert.Equal(t, "2024-03-01", got[0].Date)
	assert.Equal(t, "2024-03-03", got[2].Date)

	assert.Nil(t, ScoreSeries(nil))

	flat := ScoreSeries([]models.DailyObservation{{Date: start, Close: 5}, {Date: start, Close: 5}})
	assert.Equal(t, 50, flat[0].Score)
	assert.Equal(t, 50, flat[1].Score)
}
