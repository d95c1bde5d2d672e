package monitor

import (
	"context"
	"time"
)

// Run starts the fixed-interval loop: one cycle immediately, then one per
// tick until the context is canceled. Cycle failures are logged and the loop
// moves on to the next tick. No overlap, no retries.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	m.logger.Infof("Scheduler started, running every %s", interval)

	if err := m.RunCycle(ctx); err != nil {
		m.logger.Errorf("Capture cycle failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Scheduler stopped")
			return nil
		case <-ticker.C:
			if err := m.RunCycle(ctx); err != nil {
				m.logger.Errorf("Capture cycle failed: %v", err)
			}
		}
	}
}
