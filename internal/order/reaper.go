package order

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StaleCanceller is the slice of the repository the reaper needs.
type StaleCanceller interface {
	CancelStale(ctx context.Context, olderThan, at time.Time) (int64, error)
}

// Reaper periodically force-cancels orders that sat in a non-terminal
// state past the maximum age. Each sweep is one multi-row conditional
// update, so it never races with concurrent accepts or progressions.
type Reaper struct {
	repo     StaleCanceller
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
}

func NewReaper(repo StaleCanceller, interval, maxAge time.Duration) *Reaper {
	return &Reaper{
		repo:     repo,
		interval: interval,
		maxAge:   maxAge,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run sweeps on every tick until ctx is cancelled. Sweep errors are
// logged and the loop keeps going.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.interval).Dur("max_age", r.maxAge).Msg("stale order reaper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stale order reaper stopped")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				log.Error().Err(err).Msg("reaper: sweep failed")
			}
		}
	}
}

// Sweep cancels every order older than the configured maximum age.
func (r *Reaper) Sweep(ctx context.Context) error {
	now := r.now()
	count, err := r.repo.CancelStale(ctx, now.Add(-r.maxAge), now)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("reaper: cancelled stale orders")
	}
	return nil
}
