package repository

import (
	"signal-brain/config"
	"signal-brain/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	MarketDataRepo       MarketDataRepository
	NarrativeRepo        NarrativeRepository
	SynthesisHistoryRepo SynthesisHistoryRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	narrativeRepo, err := NewNarrativeRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		MarketDataRepo:       NewMarketDataRepository(cfg, log),
		NarrativeRepo:        narrativeRepo,
		SynthesisHistoryRepo: NewSynthesisHistoryRepository(db),
	}, nil
}
