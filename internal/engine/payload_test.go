package engine

import (
	"strings"
	"testing"

	"signal-brain/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestBuildAlertPayload_ActionableTrade(t *testing.T) {
	state := *tradableSupportState()
	result := &dto.SynthesisResult{
		States:     map[string]dto.SignalState{"SPY": state},
		CrossAsset: dto.CrossAssetResult{Signal: dto.CrossAssetConfirms, Detail: "both on support"},
		Confluence: dto.ConfluenceScore{Score: 83.0, Bias: dto.BiasBullish},
		Recommendation: dto.TradeRecommendation{
			Action:       dto.ActionLong,
			Entry:        684.45,
			Stop:         683.85,
			Target:       685.95,
			Size:         dto.SizeFull,
			RiskReward:   2.5,
			WhyThisLevel: "SPY PRIMARY support holds 2.4M across 3 levels",
			Risks:        []string{"volatility elevated at 28.0"},
		},
		Reasoning: "SPY is holding a PRIMARY support zone.",
	}

	payload := BuildAlertPayload(result, "SPY")

	assert.Contains(t, payload.Title, "83.0")
	assert.Contains(t, payload.SupportStructure, "SPY @ $685.00")
	assert.Contains(t, payload.SupportStructure, "PRIMARY $684.40")
	assert.Contains(t, payload.CrossAssetLine, "CONFIRMS")
	assert.Equal(t, result.Reasoning, payload.Thinking)
	assert.Contains(t, payload.TradeBlock, "Entry $684.45")
	assert.Contains(t, payload.TradeBlock, "Stop $683.85")
	assert.Contains(t, payload.TradeBlock, "Target $685.95")
	assert.Contains(t, payload.TradeBlock, "Risks: volatility elevated")
}

func TestBuildAlertPayload_WaitIncludesWaitFor(t *testing.T) {
	result := &dto.SynthesisResult{
		States:     map[string]dto.SignalState{},
		Confluence: dto.ConfluenceScore{Score: 70.0, Bias: dto.BiasBullish},
		Recommendation: dto.TradeRecommendation{
			Action:        dto.ActionWait,
			Size:          dto.SizeNone,
			PrimaryReason: "confluence 70.0 but price is 0.30% from the zone",
			WaitFor:       "SPY to reach the $684.25–$684.55 zone",
		},
	}

	payload := BuildAlertPayload(result, "SPY")

	assert.Contains(t, payload.TradeBlock, "WAIT")
	assert.Contains(t, payload.TradeBlock, "Waiting for SPY")
	assert.Empty(t, payload.SupportStructure)
}

func TestSupportStructureBlock_CapsZoneCount(t *testing.T) {
	state := dto.SignalState{Symbol: "SPY", CurrentPrice: 685.00}
	for i := 0; i < 5; i++ {
		state.SupportZones = append(state.SupportZones, dto.SupportZone{
			CenterPrice:    684.00 - float64(i),
			CombinedVolume: 600_000,
			LevelCount:     1,
			Rank:           dto.RankTertiary,
			ZoneType:       dto.ZoneSupport,
		})
	}

	block := supportStructureBlock(state)
	assert.Equal(t, maxZonesInPayload, strings.Count(block, "TERTIARY"))
}
