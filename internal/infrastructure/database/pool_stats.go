package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Monitor thresholds
const (
	highUtilizationPct = 80.0
	highAcquireLatency = 100 * time.Millisecond
	highCancelRatePct  = 5.0
)

// PoolStats is a snapshot of the connection pool.
type PoolStats struct {
	TotalConns           int32         `json:"totalConns"`
	AcquiredConns        int32         `json:"acquiredConns"`
	IdleConns            int32         `json:"idleConns"`
	MaxConns             int32         `json:"maxConns"`
	AcquireCount         int64         `json:"acquireCount"`
	CanceledAcquireCount int64         `json:"canceledAcquireCount"`
	AvgAcquireDuration   time.Duration `json:"avgAcquireDuration"`
}

func newPoolStats(s *pgxpool.Stat) PoolStats {
	return PoolStats{
		TotalConns:           s.TotalConns(),
		AcquiredConns:        s.AcquiredConns(),
		IdleConns:            s.IdleConns(),
		MaxConns:             s.MaxConns(),
		AcquireCount:         s.AcquireCount(),
		CanceledAcquireCount: s.CanceledAcquireCount(),
		AvgAcquireDuration:   avgDuration(s.AcquireDuration(), s.AcquireCount()),
	}
}

// Stats returns the current pool statistics.
func (db *PostgresDB) Stats() (PoolStats, error) {
	if db.Pool == nil {
		return PoolStats{}, fmt.Errorf("database pool is not initialized")
	}
	return newPoolStats(db.Pool.Stat()), nil
}

func avgDuration(total time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}

// Warnings lists the thresholds the snapshot exceeds.
func (s PoolStats) Warnings() []string {
	var warnings []string

	if s.MaxConns > 0 {
		if pct := float64(s.AcquiredConns) / float64(s.MaxConns) * 100; pct > highUtilizationPct {
			warnings = append(warnings, fmt.Sprintf("high pool utilization: %.1f%% (%d/%d)", pct, s.AcquiredConns, s.MaxConns))
		}
	}

	if s.AvgAcquireDuration > highAcquireLatency {
		warnings = append(warnings, fmt.Sprintf("high acquire latency: %v", s.AvgAcquireDuration))
	}

	if s.AcquireCount > 0 {
		if pct := float64(s.CanceledAcquireCount) / float64(s.AcquireCount) * 100; pct > highCancelRatePct {
			warnings = append(warnings, fmt.Sprintf("high acquire cancel rate: %.1f%%", pct))
		}
	}

	return warnings
}

// MonitorPoolHealth logs pool warnings every interval until ctx is done.
// Run it in its own goroutine.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				log.Warn().Err(err).Msg("[MONITOR] Failed to read pool stats")
				continue
			}
			for _, w := range stats.Warnings() {
				log.Warn().Str("pool", w).Msg("[MONITOR] Pool degraded")
			}

		case <-ctx.Done():
			log.Debug().Msg("[MONITOR] Stopping pool health monitoring")
			return
		}
	}
}
