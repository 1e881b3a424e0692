package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"RiskLens/pkg/cache"
	"RiskLens/pkg/logger"
)

var refreshLockKey = cache.GenerateKey("lock", "snapshot-refresh")

// Refresher rebuilds the current snapshot on a cron schedule. The cache
// lock keeps replicas sharing one cache from refreshing together.
type Refresher struct {
	cron     *cron.Cron
	current  *CurrentSnapshot
	locker   cache.Service
	lockTTL  time.Duration
	schedule string
	log      *logger.Logger
}

func NewRefresher(current *CurrentSnapshot, locker cache.Service, schedule string, lockTTL time.Duration, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.Nop()
	}
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &Refresher{
		cron:     cron.New(cron.WithSeconds()),
		current:  current,
		locker:   locker,
		lockTTL:  lockTTL,
		schedule: schedule,
		log:      log.With(logger.String("component", "refresher")),
	}
}

// Start registers the job and starts the scheduler. An empty schedule
// disables background refresh.
func (r *Refresher) Start() error {
	if r.schedule == "" {
		r.log.Info("background refresh disabled")
		return nil
	}
	if _, err := r.cron.AddFunc(r.schedule, func() { r.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("refresher: schedule %q: %w", r.schedule, err)
	}
	r.cron.Start()
	r.log.Info("refresher started", logger.String("schedule", r.schedule))
	return nil
}

// Stop waits for a running refresh to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info("refresher stopped")
}

// RunOnce refreshes if this process wins the lock. It reports whether a
// refresh ran.
func (r *Refresher) RunOnce(ctx context.Context) bool {
	if r.locker != nil {
		ok, err := r.locker.TryLock(ctx, refreshLockKey, r.lockTTL)
		if err != nil {
			r.log.Warn("refresh lock failed", logger.Error(err))
			return false
		}
		if !ok {
			r.log.Debug("refresh skipped, lock held elsewhere")
			return false
		}
		defer func() {
			if err := r.locker.Unlock(context.WithoutCancel(ctx), refreshLockKey); err != nil {
				r.log.Warn("refresh unlock failed", logger.Error(err))
			}
		}()
	}

	started := time.Now()
	snap := r.current.Refresh(ctx)
	r.log.Debug("snapshot refreshed",
		logger.Int("risk_index", snap.RiskIndex),
		logger.Duration("duration_ms", time.Since(started)),
	)
	return true
}
