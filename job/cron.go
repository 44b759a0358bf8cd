package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CoordinateBackfiller is the slice of the repo the job needs.
type CoordinateBackfiller interface {
	BackfillCoordinates(ctx context.Context) (int64, error)
}

// StartCron schedules the nightly coordinate backfill: providers whose ZIP
// centroid arrived after the price load get their coordinates filled in so
// they become geographically matchable.
func StartCron(repo CoordinateBackfiller, log *zap.Logger) *cron.Cron {
	c := cron.New(cron.WithSeconds())

	// 03:00 every day
	_, _ = c.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		rows, err := repo.BackfillCoordinates(ctx)
		if err != nil {
			log.Error("coordinate backfill failed", zap.Error(err))
			return
		}
		if rows > 0 {
			log.Info("coordinate backfill done", zap.Int64("providers_updated", rows))
		}
	})

	c.Start()
	return c
}
