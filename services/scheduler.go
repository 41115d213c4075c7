package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartRecomputeScheduler runs the full points recompute once immediately
// and then every hour. A failed run is logged and retried on the next tick;
// it never takes the serving path down. The returned shutdown func stops
// the scheduler.
func StartRecomputeScheduler(points *PointsService, logger *zap.Logger) (func() error, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	run := func() {
		if err := points.RecomputeAll(context.Background()); err != nil {
			logger.Error("scheduled points recompute failed, will retry next tick", zap.Error(err))
			return
		}
		logger.Info("points recompute finished")
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(run),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	logger.Info("points recompute scheduler started")

	return sched.Shutdown, nil
}
