package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/goroutine"
)

type sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// RegisterSweepJob purges used and expired codes every interval until ctx
// is canceled. A non-positive interval disables the job.
func RegisterSweepJob(ctx context.Context, gm *goroutine.Manager, s sweeper, interval time.Duration) {
	gm.Every(ctx, "identity.otp.sweep", interval, func(ctx context.Context) error {
		n, err := s.Sweep(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			slog.InfoContext(ctx, "stale otp codes purged", "count", n)
		}
		return nil
	})
}
