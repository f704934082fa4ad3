package model

import (
	"time"

	"gorm.io/datatypes"
)

type SynthesisHistory struct {
	ID            uint           `gorm:"primarykey"`
	PrimarySymbol string         `gorm:"not null"`
	Score         float64        `gorm:"not null"`
	Bias          string         `gorm:"not null"`
	Action        string         `gorm:"not null"`
	Session       string         `gorm:"not null"`
	Alerted       bool           `gorm:"not null;default:false"`
	Result        datatypes.JSON `gorm:"type:jsonb"`
	GeneratedAt   time.Time      `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SynthesisHistory) TableName() string {
	return "synthesis_histories"
}

type GetSynthesisHistoryParam struct {
	PrimarySymbol  string
	AlertedOnly    bool
	GeneratedAfter time.Time
	Limit          int
}
