package engine

import (
	"sort"

	"signal-brain/internal/dto"
	"signal-brain/pkg/logger"
	"signal-brain/pkg/utils"
)

// ZoneClusterer groups nearby raw price levels into ranked support and
// resistance zones for one instrument.
type ZoneClusterer struct {
	log          *logger.Logger
	thresholdPct float64
}

func NewZoneClusterer(log *logger.Logger) *ZoneClusterer {
	return &ZoneClusterer{
		log:          log,
		thresholdPct: clusterThresholdPct,
	}
}

// ClusterLevels sorts levels by price ascending and merges them greedily:
// each unclustered level seeds a new cluster, then absorbs every later
// unclustered level within the threshold of ANY current member. The merge
// is order-dependent on purpose; given a fixed input order the output is
// deterministic, and downstream scores depend on these exact boundaries.
func (c *ZoneClusterer) ClusterLevels(levels []dto.PriceLevel, currentPrice float64, symbol string) (supports, resistances []dto.SupportZone) {
	if len(levels) == 0 {
		return nil, nil
	}

	sorted := make([]dto.PriceLevel, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	clustered := make([]bool, len(sorted))

	for i := range sorted {
		if clustered[i] {
			continue
		}

		members := []dto.PriceLevel{sorted[i]}
		clustered[i] = true

		for j := i + 1; j < len(sorted); j++ {
			if clustered[j] {
				continue
			}
			if c.withinThreshold(sorted[j], members) {
				members = append(members, sorted[j])
				clustered[j] = true
			}
		}

		zone := c.buildZone(members, currentPrice, symbol)
		if zone.ZoneType == dto.ZoneSupport {
			supports = append(supports, zone)
		} else {
			resistances = append(resistances, zone)
		}
	}

	sort.SliceStable(supports, func(i, j int) bool {
		return supports[i].DistancePct < supports[j].DistancePct
	})
	sort.SliceStable(resistances, func(i, j int) bool {
		return resistances[i].DistancePct < resistances[j].DistancePct
	})

	c.log.Debug("Clustered levels",
		logger.StringField("symbol", symbol),
		logger.IntField("levels", len(levels)),
		logger.IntField("supports", len(supports)),
		logger.IntField("resistances", len(resistances)),
	)

	return supports, resistances
}

func (c *ZoneClusterer) withinThreshold(level dto.PriceLevel, members []dto.PriceLevel) bool {
	for _, m := range members {
		if utils.PctDistance(level.Price, m.Price) <= c.thresholdPct {
			return true
		}
	}
	return false
}

func (c *ZoneClusterer) buildZone(members []dto.PriceLevel, currentPrice float64, symbol string) dto.SupportZone {
	var sumPrice float64
	var sumVolume int64

	// Members arrive in ascending price order.
	minPrice := members[0].Price
	maxPrice := members[len(members)-1].Price

	for _, m := range members {
		sumPrice += m.Price
		sumVolume += m.Volume
	}
	center := sumPrice / float64(len(members))

	zoneType := dto.ZoneResistance
	if center < currentPrice {
		zoneType = dto.ZoneSupport
	}

	return dto.SupportZone{
		Symbol:         symbol,
		CenterPrice:    center,
		MinPrice:       minPrice,
		MaxPrice:       maxPrice,
		CombinedVolume: sumVolume,
		LevelCount:     len(members),
		Rank:           rankForVolume(sumVolume),
		ZoneType:       zoneType,
		DistancePct:    utils.PctDistance(center, currentPrice),
	}
}
