package dto

import "time"

// SignalState is the per-instrument view assembled after clustering.
// Zone slices are ordered nearest-to-price first.
type SignalState struct {
	Symbol            string        `json:"symbol"`
	CurrentPrice      float64       `json:"current_price"`
	SupportZones      []SupportZone `json:"support_zones"`
	ResistanceZones   []SupportZone `json:"resistance_zones"`
	NearestSupport    *SupportZone  `json:"nearest_support,omitempty"`
	NearestResistance *SupportZone  `json:"nearest_resistance,omitempty"`
	AtSupport         bool          `json:"at_support"`
	AtResistance      bool          `json:"at_resistance"`
	Bias              Bias          `json:"bias"`
}

// CrossAssetResult classifies how two correlated instruments relate.
type CrossAssetResult struct {
	Signal CrossAssetSignal `json:"signal"`
	Detail string           `json:"detail"`
	Boost  float64          `json:"boost"`
}

// ConfluenceScore combines the four weighted signal sources into one
// bounded score. Sub-scores are each within [0, 1]; Score within [0, 100].
type ConfluenceScore struct {
	Score           float64  `json:"score"`
	Bias            Bias     `json:"bias"`
	ZoneScore       float64  `json:"zone_score"`
	CrossAssetScore float64  `json:"cross_asset_score"`
	MacroScore      float64  `json:"macro_score"`
	TimingScore     float64  `json:"timing_score"`
	Confirmations   []string `json:"confirmations"`
	Conflicts       []string `json:"conflicts"`
}

// TradeRecommendation is the single actionable output of a cycle. Entry,
// stop and target are meaningful only when Action is LONG or SHORT; for
// WAIT they are all zero.
type TradeRecommendation struct {
	Action        Action       `json:"action"`
	Entry         float64      `json:"entry"`
	Stop          float64      `json:"stop"`
	Target        float64      `json:"target"`
	Size          PositionSize `json:"size"`
	RiskReward    float64      `json:"risk_reward"`
	PrimaryReason string       `json:"primary_reason"`
	WhyThisLevel  string       `json:"why_this_level"`
	Risks         []string     `json:"risks"`
	WaitFor       string       `json:"wait_for,omitempty"`
}

// Prediction is the optional output of an external statistical learner.
type Prediction struct {
	BounceProbability float64  `json:"bounce_probability"`
	Confidence        string   `json:"confidence"`
	Patterns          []string `json:"patterns"`
}

// NarrativeContext is the optional output of an external LLM research
// subsystem. Either enrichment may be absent; absence skips its
// contribution rather than substituting a default.
type NarrativeContext struct {
	Summary            string  `json:"summary"`
	Catalyst           string  `json:"catalyst"`
	RiskEnvironment    string  `json:"risk_environment"`
	DivergenceDetected bool    `json:"divergence_detected"`
	DivergenceDetail   string  `json:"divergence_detail"`
	Confidence         float64 `json:"confidence"`
}

// SynthesisResult aggregates everything one analysis cycle produced.
// Created fresh each cycle and never mutated afterwards.
type SynthesisResult struct {
	Context        MarketContext          `json:"context"`
	States         map[string]SignalState `json:"states"`
	CrossAsset     CrossAssetResult       `json:"cross_asset"`
	Confluence     ConfluenceScore        `json:"confluence"`
	Recommendation TradeRecommendation    `json:"recommendation"`
	Reasoning      string                 `json:"reasoning"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// AlertPayload is the presentation form of a SynthesisResult handed to
// delivery subsystems.
type AlertPayload struct {
	Title            string `json:"title"`
	SupportStructure string `json:"support_structure"`
	CrossAssetLine   string `json:"cross_asset_line"`
	Thinking         string `json:"thinking"`
	TradeBlock       string `json:"trade_block"`
}
