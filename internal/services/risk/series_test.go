package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskLens/internal/domain/models"
)

func TestBuildSeries_EndToEnd(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	obs := []models.DailyObservation{
		{Date: start, Close: 100, Volume: 10},
		{Date: start.AddDate(0, 0, 1), Close: 110, Volume: 20},
		{Date: start.AddDate(0, 0, 2), Close: 90, Volume: 30},
	}
	e := models.TrackedEntity{ID: "aaa", Symbol: "AAA", DisplayName: "AAA Inc", Sector: "Technology"}

	got := BuildSeries(e, obs, models.SourceLive)

	assert.Equal(t, "aaa", got.ID)
	assert.Equal(t, models.SourceLive, got.Source)
	require.Len(t, got.Observations, 3)
	assert.Equal(t, 50, got.Observations[0].Score)
	assert.Equal(t, 0, got.Observations[1].Score)
	assert.Equal(t, 100, got.Observations[2].Score)

	require.Len(t, got.Auxiliary.DailyPercentChanges, 2)
	assert.InDelta(t, 10.0, got.Auxiliary.DailyPercentChanges[0], 1e-9)
	assert.InDelta(t, -18.1818, got.Auxiliary.DailyPercentChanges[1], 1e-4)
	assert.Equal(t, []float64{10, 20, 30}, got.Auxiliary.Volumes)

	alerts := GenerateAlerts([]models.EntitySeries{got})
	require.Len(t, alerts, 1)
	assert.Equal(t, 100, alerts[0].ScoreDelta)
}
