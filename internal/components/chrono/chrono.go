package chrono

import (
	"context"
	"time"
)

// API is the clock used by anything that waits, so tests can skip the waiting.
type API interface {
	Now() time.Time
	// Sleep waits for d, returning early with ctx.Err() if ctx is done first.
	Sleep(ctx context.Context, d time.Duration) error
}

type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

func (StandardImpl) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
