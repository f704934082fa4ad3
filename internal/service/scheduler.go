package service

import (
	"context"

	"signal-brain/config"
	"signal-brain/pkg/logger"
	"signal-brain/pkg/utils"

	"github.com/robfig/cron/v3"
)

type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

// schedulerService triggers analysis cycles on a cron spec. Cycles run
// one at a time; an overlapping trigger is skipped rather than queued so
// the engine's single-writer assumption holds.
type schedulerService struct {
	cfg      *config.Config
	log      *logger.Logger
	analysis AnalysisService
	cron     *cron.Cron
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, analysis AnalysisService) SchedulerService {
	c := cron.New(
		cron.WithLocation(utils.GetExchangeLocation()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &schedulerService{
		cfg:      cfg,
		log:      log,
		analysis: analysis,
		cron:     c,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Scheduler.CycleSpec, func() {
		if !utils.ShouldContinue(ctx, s.log) {
			return
		}

		fedSentiment, policyRisk := s.analysis.MacroFlags()
		if _, err := s.analysis.RunAnalysis(ctx, fedSentiment, policyRisk); err != nil {
			s.log.ErrorContext(ctx, "Scheduled analysis cycle failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("Starting analysis scheduler", logger.StringField("spec", s.cfg.Scheduler.CycleSpec))
	s.cron.Start()
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Analysis scheduler stopped")
}
