package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskLens/internal/domain/models"
)

func snapshotFixture() *models.AggregateSnapshot {
	mk := func(id, sector string, scores ...int) models.EntitySeries {
		e := series(id, scores...)
		e.Sector = sector
		return e
	}
	snap := &models.AggregateSnapshot{
		Entities: []models.EntitySeries{
			mk("alpha", "Technology", 55, 60),
			mk("beta", "Industrials", 20, 90),
			mk("gamma", "Financials", 58, 60),
			mk("delta", "Energy", 0, 100),
			mk("epsilon", "Healthcare", 33, 34),
			mk("zeta", "Consumer Staples", 50, 70),
		},
		Drivers: DefaultDrivers(),
	}
	snap.RiskIndex, snap.RiskScoreChange, snap.RiskLevel = Index(snap.Entities)
	return snap
}

func TestApplyShock_ZeroIsIdentity(t *testing.T) {
	in := snapshotFixture()
	out := ApplyShock(in, models.Shocks{})
	assert.Equal(t, in.Entities, out.Entities)
	assert.Equal(t, in.RiskIndex, out.RiskIndex)
}

func TestApplyShock_InterestRateHitsFinancialsOnly(t *testing.T) {
	in := snapshotFixture()
	out := ApplyShock(in, models.Shocks{InterestRate: 5})

	// gamma: round(min(100, 60*1.05)) = 63
	assert.Equal(t, 63, out.Entities[2].Observations[1].Score)
	assert.Equal(t, 61, out.Entities[2].Observations[0].Score)
	// technology unchanged
	assert.Equal(t, in.Entities[0].Observations, out.Entities[0].Observations)
	// input untouched
	assert.Equal(t, 60, in.Entities[2].Observations[1].Score)
}

func TestApplyShock_SectorMapping(t *testing.T) {
	in := snapshotFixture()

	out := ApplyShock(in, models.Shocks{CommodityPrice: -10})
	assert.Equal(t, 81, out.Entities[1].Observations[1].Score)
	assert.Equal(t, 90, out.Entities[3].Observations[1].Score)
	assert.Equal(t, in.Entities[5].Observations, out.Entities[5].Observations)

	out = ApplyShock(in, models.Shocks{FX: 10})
	assert.Equal(t, 77, out.Entities[5].Observations[1].Score)
	assert.Equal(t, in.Entities[4].Observations, out.Entities[4].Observations)
}

func TestApplyShock_Clamp(t *testing.T) {
	in := snapshotFixture()
	for _, s := range []models.Shocks{
		{InterestRate: 1e6, FX: 1e6, CommodityPrice: 1e6},
		{InterestRate: -1e6, FX: -1e6, CommodityPrice: -1e6},
		{InterestRate: 20, FX: -300, CommodityPrice: 150},
	} {
		out := ApplyShock(in, s)
		for _, e := range out.Entities {
			for _, o := range e.Observations {
				assert.GreaterOrEqual(t, o.Score, 0)
				assert.LessOrEqual(t, o.Score, 100)
			}
		}
	}
}

func TestApplyShock_RecomputesIndex(t *testing.T) {
	in := snapshotFixture()
	out := ApplyShock(in, models.Shocks{InterestRate: 5, CommodityPrice: 20, FX: 10})
	idx, chg, lvl := Index(out.Entities)
	assert.Equal(t, idx, out.RiskIndex)
	assert.Equal(t, chg, out.RiskScoreChange)
	assert.Equal(t, lvl, out.RiskLevel)
	require.Nil(t, ApplyShock(nil, models.Shocks{FX: 1}))
}
