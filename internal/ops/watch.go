package ops

import (
	"context"
	"time"

	"github.com/sonce/newsctl/internal/config"
)

// Watch polls the incoming directory and runs the importer whenever
// bundles are waiting. Each pass runs to completion before the next is
// considered, so the content and asset directories only ever have one
// writer. notify receives the outcome of every non-empty pass.
func Watch(ctx context.Context, cfg *config.Config, paths config.Paths, notify func(*ImportOutput, error)) error {
	interval := time.Duration(cfg.WatchIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		out, err := ImportIncoming(cfg, paths)
		if err != nil || len(out.Results) > 0 {
			notify(out, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
