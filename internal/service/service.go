package service

import (
	"signal-brain/config"
	"signal-brain/internal/contract"
	"signal-brain/internal/engine"
	"signal-brain/internal/repository"
	"signal-brain/pkg/cache"
	"signal-brain/pkg/logger"
)

type Service struct {
	AnalysisService  AnalysisService
	SchedulerService SchedulerService
	Engine           *engine.SignalBrainEngine
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	notifiers []contract.Notifier,
) *Service {
	brainEngine := engine.NewSignalBrainEngine(
		log,
		inmemoryCache,
		repo.MarketDataRepo,
		cfg.Engine.PrimarySymbol,
		cfg.Engine.SecondarySymbol,
	)

	analysisService := NewAnalysisService(
		cfg,
		log,
		brainEngine,
		repo.MarketDataRepo,
		repo.NarrativeRepo,
		repo.SynthesisHistoryRepo,
		notifiers,
	)

	schedulerService := NewSchedulerService(cfg, log, analysisService)

	return &Service{
		AnalysisService:  analysisService,
		SchedulerService: schedulerService,
		Engine:           brainEngine,
	}
}
