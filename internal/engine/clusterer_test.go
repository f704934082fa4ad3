package engine

import (
	"testing"

	"signal-brain/internal/dto"
	"signal-brain/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClusterer() *ZoneClusterer {
	return NewZoneClusterer(logger.NewNop())
}

func TestZoneClusterer_SingleZoneFromAdjacentLevels(t *testing.T) {
	levels := []dto.PriceLevel{
		{Price: 684.39, Volume: 1_200_000},
		{Price: 684.41, Volume: 900_000},
		{Price: 684.43, Volume: 300_000},
	}

	supports, resistances := newTestClusterer().ClusterLevels(levels, 685.00, "SPY")

	require.Len(t, supports, 1)
	assert.Empty(t, resistances)

	zone := supports[0]
	assert.Equal(t, dto.ZoneSupport, zone.ZoneType)
	assert.InDelta(t, 684.41, zone.CenterPrice, 0.001)
	assert.Equal(t, int64(2_400_000), zone.CombinedVolume)
	assert.Equal(t, dto.RankPrimary, zone.Rank)
	assert.Equal(t, 3, zone.LevelCount)
	assert.Equal(t, 684.39, zone.MinPrice)
	assert.Equal(t, 684.43, zone.MaxPrice)
}

func TestZoneClusterer_EmptyInput(t *testing.T) {
	supports, resistances := newTestClusterer().ClusterLevels(nil, 685.00, "SPY")
	assert.Empty(t, supports)
	assert.Empty(t, resistances)
}

func TestZoneClusterer_SingleLevelIsValidZone(t *testing.T) {
	supports, resistances := newTestClusterer().ClusterLevels(
		[]dto.PriceLevel{{Price: 690.00, Volume: 600_000}}, 685.00, "SPY")

	assert.Empty(t, supports)
	require.Len(t, resistances, 1)
	assert.Equal(t, dto.ZoneResistance, resistances[0].ZoneType)
	assert.Equal(t, 1, resistances[0].LevelCount)
	assert.Equal(t, 690.00, resistances[0].CenterPrice)
	assert.Equal(t, dto.RankTertiary, resistances[0].Rank)
}

func TestZoneClusterer_RankCutoffs(t *testing.T) {
	tests := []struct {
		name   string
		volume int64
		want   dto.ZoneRank
	}{
		{name: "primary at cutoff", volume: 2_000_000, want: dto.RankPrimary},
		{name: "secondary at cutoff", volume: 1_000_000, want: dto.RankSecondary},
		{name: "tertiary at cutoff", volume: 500_000, want: dto.RankTertiary},
		{name: "below all cutoffs", volume: 499_999, want: dto.RankMinor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rankForVolume(tt.volume))
		})
	}
}

// Zones must partition the input: every level lands in exactly one zone
// and combined volumes add up to the input total.
func TestZoneClusterer_ZonesPartitionLevels(t *testing.T) {
	levels := []dto.PriceLevel{
		{Price: 683.10, Volume: 500_000},
		{Price: 683.15, Volume: 700_000},
		{Price: 684.40, Volume: 2_100_000},
		{Price: 685.90, Volume: 300_000},
		{Price: 686.00, Volume: 1_500_000},
		{Price: 687.55, Volume: 250_000},
	}

	var wantVolume int64
	for _, l := range levels {
		wantVolume += l.Volume
	}

	supports, resistances := newTestClusterer().ClusterLevels(levels, 685.00, "SPY")

	var gotVolume int64
	gotCount := 0
	for _, z := range append(supports, resistances...) {
		gotVolume += z.CombinedVolume
		gotCount += z.LevelCount
	}

	assert.Equal(t, wantVolume, gotVolume)
	assert.Equal(t, len(levels), gotCount)
}

// Fixed input order and threshold always produce identical zones, and
// because levels are price-sorted before merging, two shuffles of the same
// multiset converge too.
func TestZoneClusterer_Deterministic(t *testing.T) {
	ordered := []dto.PriceLevel{
		{Price: 684.39, Volume: 1_200_000},
		{Price: 684.41, Volume: 900_000},
		{Price: 685.90, Volume: 300_000},
		{Price: 686.00, Volume: 1_500_000},
	}
	shuffled := []dto.PriceLevel{
		{Price: 686.00, Volume: 1_500_000},
		{Price: 684.41, Volume: 900_000},
		{Price: 685.90, Volume: 300_000},
		{Price: 684.39, Volume: 1_200_000},
	}

	c := newTestClusterer()

	s1, r1 := c.ClusterLevels(ordered, 685.00, "SPY")
	s2, r2 := c.ClusterLevels(ordered, 685.00, "SPY")
	s3, r3 := c.ClusterLevels(shuffled, 685.00, "SPY")

	assert.Equal(t, s1, s2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, s1, s3)
	assert.Equal(t, r1, r3)
}

// The greedy merge chains: a level outside the threshold of the cluster
// seed still joins when it is within the threshold of a later member.
// This asymmetry is intentional; zone boundaries downstream depend on it.
func TestZoneClusterer_GreedyChaining(t *testing.T) {
	// 684.00 -> 684.60 is ~0.088%, 684.60 -> 685.20 is ~0.087%,
	// but 684.00 -> 685.20 is ~0.175%, beyond the threshold.
	levels := []dto.PriceLevel{
		{Price: 684.00, Volume: 400_000},
		{Price: 684.60, Volume: 400_000},
		{Price: 685.20, Volume: 400_000},
	}

	supports, resistances := newTestClusterer().ClusterLevels(levels, 690.00, "SPY")

	require.Len(t, supports, 1)
	assert.Empty(t, resistances)
	assert.Equal(t, 3, supports[0].LevelCount)
	assert.Equal(t, 684.00, supports[0].MinPrice)
	assert.Equal(t, 685.20, supports[0].MaxPrice)
}

func TestZoneClusterer_OutputsSortedNearestFirst(t *testing.T) {
	levels := []dto.PriceLevel{
		{Price: 680.00, Volume: 600_000},
		{Price: 684.50, Volume: 600_000},
		{Price: 686.00, Volume: 600_000},
		{Price: 692.00, Volume: 600_000},
	}

	supports, resistances := newTestClusterer().ClusterLevels(levels, 685.00, "SPY")

	require.Len(t, supports, 2)
	require.Len(t, resistances, 2)
	assert.Equal(t, 684.50, supports[0].CenterPrice)
	assert.Equal(t, 680.00, supports[1].CenterPrice)
	assert.Equal(t, 686.00, resistances[0].CenterPrice)
	assert.Equal(t, 692.00, resistances[1].CenterPrice)
	assert.LessOrEqual(t, supports[0].DistancePct, supports[1].DistancePct)
	assert.LessOrEqual(t, resistances[0].DistancePct, resistances[1].DistancePct)
}

func TestZoneClusterer_ZonePriceInvariant(t *testing.T) {
	levels := []dto.PriceLevel{
		{Price: 684.39, Volume: 800_000},
		{Price: 684.45, Volume: 800_000},
		{Price: 684.50, Volume: 800_000},
	}

	supports, _ := newTestClusterer().ClusterLevels(levels, 685.00, "SPY")

	require.Len(t, supports, 1)
	z := supports[0]
	assert.LessOrEqual(t, z.MinPrice, z.CenterPrice)
	assert.LessOrEqual(t, z.CenterPrice, z.MaxPrice)
}
