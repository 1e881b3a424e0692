package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskLens/internal/domain/models"
)

func series(id string, scores ...int) models.EntitySeries {
	obs := make([]models.ScoredObservation, len(scores))
	for i, s := range scores {
		obs[i] = models.ScoredObservation{Date: "2024-01-0" + string(rune('1'+i)), Score: s}
	}
	return models.EntitySeries{ID: id, DisplayName: id + " Corp", Observations: obs}
}

func TestGenerateAlerts_Threshold(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		alert  bool
		delta  int
	}{
		{"delta 8 is silent", []int{40, 48}, false, 0},
		{"delta -8 is silent", []int{48, 40}, false, 0},
		{"delta 9 alerts", []int{40, 49}, true, 9},
		{"delta -12 alerts", []int{60, 48}, true, -12},
		{"single observation", []int{90}, false, 0},
		{"only last two count", []int{0, 50, 51}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateAlerts([]models.EntitySeries{series("x", tt.scores...)})
			if !tt.alert {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.delta, got[0].ScoreDelta)
			assert.Equal(t, models.TriggerVolatility, got[0].Trigger)
			assert.Equal(t, "x", got[0].EntityID)
			assert.Equal(t, "x Corp", got[0].DisplayName)
		})
	}
}

func TestGenerateAlerts_DeterministicIDs(t *testing.T) {
	es := []models.EntitySeries{series("a", 10, 30), series("b", 30, 10)}
	first := GenerateAlerts(es)
	second := GenerateAlerts(es)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first[0].ID, first[1].ID)
	assert.Equal(t, "2024-01-02", first[0].ObservedAt)
}

func TestGenerateAlerts_EmptyIsNotNil(t *testing.T) {
	got := GenerateAlerts(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
