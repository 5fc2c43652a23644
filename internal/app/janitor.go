package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/service"
)

// Janitor runs periodic maintenance in the background.
type Janitor struct {
	schedules *service.ScheduleService
	logger    *zap.Logger
	stopChan  chan struct{}
}

func NewJanitor(schedules *service.ScheduleService, logger *zap.Logger) *Janitor {
	return &Janitor{
		schedules: schedules,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the maintenance loop.
func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("starting background janitor")
	go j.runSlotPruneTask(ctx)
}

// Stop terminates the maintenance loop.
func (j *Janitor) Stop() {
	j.logger.Info("stopping background janitor")
	close(j.stopChan)
}

// runSlotPruneTask removes yesterday's unbooked slots once a day.
func (j *Janitor) runSlotPruneTask(ctx context.Context) {
	j.pruneSlots(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.pruneSlots(ctx)
		case <-j.stopChan:
			j.logger.Info("slot prune task stopped")
			return
		case <-ctx.Done():
			j.logger.Info("slot prune task cancelled")
			return
		}
	}
}

func (j *Janitor) pruneSlots(ctx context.Context) {
	if _, err := j.schedules.PruneExpiredSlots(ctx); err != nil {
		j.logger.Error("failed to prune expired slots", zap.Error(err))
	}
}
