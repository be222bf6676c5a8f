package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts what the event loop did. Reload events arrive from the
// watcher goroutine, so every counter is atomic.
type Metrics struct {
	eventCount  atomic.Uint64
	renderCount atomic.Uint64
	renderNs    atomic.Int64
	renderMaxNs atomic.Int64
	reloadCount atomic.Uint64
	flashCount  atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordEvent counts a handled backend event.
func (m *Metrics) RecordEvent() { m.eventCount.Add(1) }

// RecordReload counts a document reloaded from disk.
func (m *Metrics) RecordReload() { m.reloadCount.Add(1) }

// RecordFlash counts a message shown to the user.
func (m *Metrics) RecordFlash() { m.flashCount.Add(1) }

// RecordRender records the time taken to draw one scene.
func (m *Metrics) RecordRender(d time.Duration) {
	ns := d.Nanoseconds()
	m.renderCount.Add(1)
	m.renderNs.Add(ns)
	for {
		old := m.renderMaxNs.Load()
		if ns <= old || m.renderMaxNs.CompareAndSwap(old, ns) {
			return
		}
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime      time.Duration
	EventCount  uint64
	RenderCount uint64
	AvgRender   time.Duration
	MaxRender   time.Duration
	ReloadCount uint64
	FlashCount  uint64
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	renders := m.renderCount.Load()
	var avg time.Duration
	if renders > 0 {
		avg = time.Duration(m.renderNs.Load() / int64(renders))
	}
	return MetricsSnapshot{
		Uptime:      time.Since(m.startTime),
		EventCount:  m.eventCount.Load(),
		RenderCount: renders,
		AvgRender:   avg,
		MaxRender:   time.Duration(m.renderMaxNs.Load()),
		ReloadCount: m.reloadCount.Load(),
		FlashCount:  m.flashCount.Load(),
	}
}

// KeysAndValues flattens the snapshot for structured logging.
func (s MetricsSnapshot) KeysAndValues() []any {
	return []any{
		"uptime", s.Uptime.Round(time.Millisecond).String(),
		"events", s.EventCount,
		"renders", s.RenderCount,
		"avgRender", s.AvgRender.String(),
		"maxRender", s.MaxRender.String(),
		"reloads", s.ReloadCount,
		"flashes", s.FlashCount,
	}
}
