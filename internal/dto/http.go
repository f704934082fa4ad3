package dto

type BaseResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type AnalyzeRequest struct {
	FedSentiment string `json:"fed_sentiment" validate:"required,oneof=HAWKISH DOVISH NEUTRAL"`
	PolicyRisk   string `json:"policy_risk" validate:"required,oneof=LOW MEDIUM HIGH"`
}

type HistoryRequest struct {
	Symbol      string `query:"symbol"`
	AlertedOnly bool   `query:"alerted_only"`
	Limit       int    `query:"limit"`
}
