package monitoring

import (
	"sync"
	"time"

	"github.com/tr1v3r/pkg/log"
)

// Metrics tracks basic application metrics
type Metrics struct {
	mu sync.RWMutex

	// HTTP metrics
	HTTPRequestsTotal    int64
	HTTPRequestsByMethod map[string]int64
	HTTPRequestDuration  time.Duration

	// client side
	CommandsSentTotal        int64
	SubtitleFetchesTotal     int64
	SubtitleFetchErrorsTotal int64

	// server side
	CommandsForwardedTotal int64
	ForwardErrorsTotal     int64
	SubtitleLoadsTotal     int64

	startTime time.Time
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = newMetrics()
	})
	return globalMetrics
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsByMethod: make(map[string]int64),
		startTime:            time.Now(),
	}
}

// RecordHTTPRequest records an HTTP request served by the companion server
func (m *Metrics) RecordHTTPRequest(method string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HTTPRequestsTotal++
	m.HTTPRequestsByMethod[method]++
	m.HTTPRequestDuration += duration
}

func (m *Metrics) RecordCommandSent() { m.add(&m.CommandsSentTotal) }

func (m *Metrics) RecordSubtitleFetch() { m.add(&m.SubtitleFetchesTotal) }

func (m *Metrics) RecordSubtitleFetchError() { m.add(&m.SubtitleFetchErrorsTotal) }

func (m *Metrics) RecordCommandForwarded() { m.add(&m.CommandsForwardedTotal) }

func (m *Metrics) RecordForwardError() { m.add(&m.ForwardErrorsTotal) }

func (m *Metrics) RecordSubtitleLoad() { m.add(&m.SubtitleLoadsTotal) }

func (m *Metrics) add(counter *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	*counter++
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	HTTPRequestsTotal        int64
	HTTPRequestsByMethod     map[string]int64
	HTTPRequestDuration      time.Duration
	CommandsSentTotal        int64
	SubtitleFetchesTotal     int64
	SubtitleFetchErrorsTotal int64
	CommandsForwardedTotal   int64
	ForwardErrorsTotal       int64
	SubtitleLoadsTotal       int64
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byMethod := make(map[string]int64, len(m.HTTPRequestsByMethod))
	for k, v := range m.HTTPRequestsByMethod {
		byMethod[k] = v
	}
	return Snapshot{
		HTTPRequestsTotal:        m.HTTPRequestsTotal,
		HTTPRequestsByMethod:     byMethod,
		HTTPRequestDuration:      m.HTTPRequestDuration,
		CommandsSentTotal:        m.CommandsSentTotal,
		SubtitleFetchesTotal:     m.SubtitleFetchesTotal,
		SubtitleFetchErrorsTotal: m.SubtitleFetchErrorsTotal,
		CommandsForwardedTotal:   m.CommandsForwardedTotal,
		ForwardErrorsTotal:       m.ForwardErrorsTotal,
		SubtitleLoadsTotal:       m.SubtitleLoadsTotal,
	}
}

// GetUptime returns the application uptime
func (m *Metrics) GetUptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return time.Since(m.startTime)
}

// LogMetrics logs current metrics
func (m *Metrics) LogMetrics() {
	s := m.Snapshot()

	log.Info("Application metrics uptime=%s http_requests_total=%d commands_sent_total=%d subtitle_fetches_total=%d subtitle_fetch_errors_total=%d commands_forwarded_total=%d forward_errors_total=%d subtitle_loads_total=%d",
		m.GetUptime().String(),
		s.HTTPRequestsTotal,
		s.CommandsSentTotal,
		s.SubtitleFetchesTotal,
		s.SubtitleFetchErrorsTotal,
		s.CommandsForwardedTotal,
		s.ForwardErrorsTotal,
		s.SubtitleLoadsTotal)
}
