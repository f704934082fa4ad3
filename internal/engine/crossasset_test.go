package engine

import (
	"testing"

	"signal-brain/internal/dto"

	"github.com/stretchr/testify/assert"
)

func crossState(symbol string, atSupport, atResistance bool) *dto.SignalState {
	return &dto.SignalState{
		Symbol:       symbol,
		AtSupport:    atSupport,
		AtResistance: atResistance,
	}
}

func TestCrossAssetAnalyzer_DecisionTable(t *testing.T) {
	tests := []struct {
		name       string
		stateA     *dto.SignalState
		stateB     *dto.SignalState
		wantSignal dto.CrossAssetSignal
		wantBoost  float64
	}{
		{
			name:       "both at support confirms",
			stateA:     crossState("SPY", true, false),
			stateB:     crossState("QQQ", true, false),
			wantSignal: dto.CrossAssetConfirms,
			wantBoost:  0.20,
		},
		{
			name:       "both at resistance confirms",
			stateA:     crossState("SPY", false, true),
			stateB:     crossState("QQQ", false, true),
			wantSignal: dto.CrossAssetConfirms,
			wantBoost:  0.20,
		},
		{
			name:       "support vs resistance divergent",
			stateA:     crossState("SPY", true, false),
			stateB:     crossState("QQQ", false, true),
			wantSignal: dto.CrossAssetDivergent,
			wantBoost:  -0.15,
		},
		{
			name:       "resistance vs support divergent",
			stateA:     crossState("SPY", false, true),
			stateB:     crossState("QQQ", true, false),
			wantSignal: dto.CrossAssetDivergent,
			wantBoost:  -0.15,
		},
		{
			name:       "only primary at support is one sided",
			stateA:     crossState("SPY", true, false),
			stateB:     crossState("QQQ", false, false),
			wantSignal: dto.CrossAssetNeutral,
			wantBoost:  0.05,
		},
		{
			name:       "only secondary at support is one sided",
			stateA:     crossState("SPY", false, false),
			stateB:     crossState("QQQ", true, false),
			wantSignal: dto.CrossAssetNeutral,
			wantBoost:  0.05,
		},
		{
			name:       "only primary at resistance is one sided",
			stateA:     crossState("SPY", false, true),
			stateB:     crossState("QQQ", false, false),
			wantSignal: dto.CrossAssetNeutral,
			wantBoost:  0.05,
		},
		{
			name:       "only secondary at resistance is one sided",
			stateA:     crossState("SPY", false, false),
			stateB:     crossState("QQQ", false, true),
			wantSignal: dto.CrossAssetNeutral,
			wantBoost:  0.05,
		},
		{
			name:       "neither at a level",
			stateA:     crossState("SPY", false, false),
			stateB:     crossState("QQQ", false, false),
			wantSignal: dto.CrossAssetNeutral,
			wantBoost:  0,
		},
		{
			name:       "missing primary state",
			stateA:     nil,
			stateB:     crossState("QQQ", true, false),
			wantSignal: dto.CrossAssetNeutral,
			wantBoost:  0,
		},
		{
			name:       "missing secondary state",
			stateA:     crossState("SPY", true, false),
			stateB:     nil,
			wantSignal: dto.CrossAssetNeutral,
			wantBoost:  0,
		},
		{
			name:       "both states missing",
			stateA:     nil,
			stateB:     nil,
			wantSignal: dto.CrossAssetNeutral,
			wantBoost:  0,
		},
	}

	analyzer := NewCrossAssetAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Analyze(tt.stateA, tt.stateB)
			assert.Equal(t, tt.wantSignal, got.Signal)
			assert.InDelta(t, tt.wantBoost, got.Boost, 1e-9)
			assert.NotEmpty(t, got.Detail)
		})
	}
}

func TestCrossAssetAnalyzer_OneSidedDetailNamesTheInstrument(t *testing.T) {
	analyzer := NewCrossAssetAnalyzer()

	got := analyzer.Analyze(crossState("SPY", false, false), crossState("QQQ", true, false))
	assert.Contains(t, got.Detail, "QQQ is at support")

	got = analyzer.Analyze(crossState("SPY", false, true), crossState("QQQ", false, false))
	assert.Contains(t, got.Detail, "SPY is at resistance")
}
