package notify

import (
	"sync/atomic"
	"time"
)

// ServiceMetrics counts jobs handled by this processor instance since start.
type ServiceMetrics struct {
	totalProcessed  atomic.Int64
	totalFailed     atomic.Int64
	totalDurationNs atomic.Int64
	startedAt       time.Time
}

func NewServiceMetrics() *ServiceMetrics {
	return &ServiceMetrics{startedAt: time.Now()}
}

func (m *ServiceMetrics) RecordSuccess(duration time.Duration) {
	m.totalProcessed.Add(1)
	m.totalDurationNs.Add(int64(duration))
}

func (m *ServiceMetrics) RecordFailure() {
	m.totalFailed.Add(1)
}

type ServiceStats struct {
	TotalProcessed int64
	TotalFailed    int64
	RatePerSecond  float64
	AvgDuration    time.Duration
	Uptime         time.Duration
}

func (m *ServiceMetrics) GetStats() ServiceStats {
	processed := m.totalProcessed.Load()
	uptime := time.Since(m.startedAt)

	stats := ServiceStats{
		TotalProcessed: processed,
		TotalFailed:    m.totalFailed.Load(),
		Uptime:         uptime,
	}
	if secs := uptime.Seconds(); secs > 0 {
		stats.RatePerSecond = float64(processed) / secs
	}
	if processed > 0 {
		stats.AvgDuration = time.Duration(m.totalDurationNs.Load() / processed)
	}
	return stats
}
