package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/service"
)

// Worker drains the note enrichment queue in the background.
type Worker struct {
	enrichment *service.EnrichmentService
	interval   time.Duration
	visibility time.Duration
	logger     *zap.Logger
	stopChan   chan struct{}
}

func NewWorker(enrichment *service.EnrichmentService, interval, visibility time.Duration, logger *zap.Logger) *Worker {
	return &Worker{
		enrichment: enrichment,
		interval:   interval,
		visibility: visibility,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting enrichment worker", zap.Duration("interval", w.interval))
	go w.run(ctx)
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping enrichment worker")
	close(w.stopChan)
}

func (w *Worker) run(ctx context.Context) {
	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-w.stopChan:
			w.logger.Info("Enrichment worker stopped")
			return
		case <-ctx.Done():
			w.logger.Info("Enrichment worker cancelled")
			return
		}
	}
}

// tick requeues tasks abandoned by a crashed worker, then drains the queue
// until it is empty.
func (w *Worker) tick(ctx context.Context) {
	requeued, err := w.enrichment.RequeueStale(ctx, w.visibility)
	if err != nil {
		w.logger.Error("Failed to requeue stale tasks", zap.Error(err))
	} else if requeued > 0 {
		w.logger.Warn("Requeued stale enrichment tasks", zap.Int64("count", requeued))
	}

	for {
		processed, err := w.enrichment.ProcessNext(ctx)
		if err != nil {
			w.logger.Error("Failed to process enrichment task", zap.Error(err))
			return
		}
		if !processed {
			return
		}
	}
}
