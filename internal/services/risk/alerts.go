package risk

import (
	"github.com/google/uuid"

	"RiskLens/internal/domain/models"
)

// AlertThreshold is the absolute score move that must be exceeded.
const AlertThreshold = 8

var alertNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("risklens/alerts"))

// GenerateAlerts emits one alert per entity whose last two scores differ by
// more than AlertThreshold. The trigger is always Volatility.
func GenerateAlerts(entities []models.EntitySeries) []models.Alert {
	alerts := make([]models.Alert, 0)
	for _, e := range entities {
		prev, latest, ok := e.LastTwo()
		if !ok {
			continue
		}
		delta := latest - prev
		if abs(delta) <= AlertThreshold {
			continue
		}
		observed := e.Observations[len(e.Observations)-1].Date
		alerts = append(alerts, models.Alert{
			ID:          uuid.NewSHA1(alertNamespace, []byte(e.ID+"|"+observed)).String(),
			EntityID:    e.ID,
			DisplayName: e.DisplayName,
			ScoreDelta:  delta,
			Trigger:     models.TriggerVolatility,
			ObservedAt:  observed,
		})
	}
	return alerts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
