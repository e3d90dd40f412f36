// Package worker runs periodic maintenance outside the request path.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// OverdueMarker is the operation the overdue worker drives.
// settlement.Engine implements it.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// OverdueWorker periodically flags pending expenses past their due date.
type OverdueWorker struct {
	marker   OverdueMarker
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

// NewOverdueWorker creates a worker that scans every interval.
func NewOverdueWorker(marker OverdueMarker, logger *slog.Logger, interval time.Duration) *OverdueWorker {
	return &OverdueWorker{
		marker:   marker,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Start scans once immediately, then on every tick until ctx is cancelled.
func (w *OverdueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("overdue worker started", slog.Duration("interval", w.interval))
	w.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("overdue worker stopped")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *OverdueWorker) scan(ctx context.Context) {
	n, err := w.marker.MarkOverdue(ctx, w.now())
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("overdue scan failed", slog.String("error", err.Error()))
		}
		return
	}
	w.logger.Debug("overdue scan finished", slog.Int64("marked", n))
}
