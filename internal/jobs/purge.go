package jobs

import (
	"context"
	"log/slog"
	"time"

	"cinetrack/proj/internal/metrics"
)

type UserPurger interface {
	DeleteDisabledBefore(ctx context.Context, t time.Time) (int, error)
	DeleteUnverifiedBefore(ctx context.Context, t time.Time) (int, error)
}

// PurgeJob periodically deletes accounts matching its predicate that are
// older than maxAge. It runs once right after start.
type PurgeJob struct {
	name     string
	log      *slog.Logger
	interval time.Duration
	maxAge   time.Duration
	purge    func(ctx context.Context, before time.Time) (int, error)
	now      func() time.Time
}

// NewDisabledPurge deletes accounts disabled for longer than grace.
func NewDisabledPurge(log *slog.Logger, users UserPurger, interval, grace time.Duration) *PurgeJob {
	return newPurgeJob("disabled", log, interval, grace, users.DeleteDisabledBefore)
}

// NewUnverifiedPurge deletes accounts never verified within ttl of signup.
func NewUnverifiedPurge(log *slog.Logger, users UserPurger, interval, ttl time.Duration) *PurgeJob {
	return newPurgeJob("unverified", log, interval, ttl, users.DeleteUnverifiedBefore)
}

func newPurgeJob(
	name string,
	log *slog.Logger,
	interval, maxAge time.Duration,
	purge func(ctx context.Context, before time.Time) (int, error),
) *PurgeJob {
	return &PurgeJob{
		name:     name,
		log:      log.With("job", "purge-"+name),
		interval: interval,
		maxAge:   maxAge,
		purge:    purge,
		now:      time.Now,
	}
}

func (j *PurgeJob) RunOnce(ctx context.Context) (int, error) {
	const op = "jobs.PurgeJob.RunOnce"
	log := j.log.With("op", op)
	cutoff := j.now().UTC().Add(-j.maxAge)
	deleted, err := j.purge(ctx, cutoff)
	if err != nil {
		metrics.PurgeErrorsTotal.WithLabelValues(j.name).Inc()
		log.Error("purge failed", "errMsg", err.Error())
		return 0, err
	}
	metrics.AccountsPurgedTotal.WithLabelValues(j.name).Add(float64(deleted))
	if deleted > 0 {
		log.Info("accounts purged", "count", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// Serve implements suture.Service. A failed run is retried on the next tick.
func (j *PurgeJob) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		_, _ = j.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (j *PurgeJob) String() string {
	return "purge-" + j.name
}
