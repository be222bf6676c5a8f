package app

import (
	"sync"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	snapshot := m.Snapshot()
	if snapshot.RenderCount != 0 || snapshot.EventCount != 0 {
		t.Errorf("expected zero counters, got %+v", snapshot)
	}
	if snapshot.AvgRender != 0 {
		t.Errorf("expected zero average without renders, got %v", snapshot.AvgRender)
	}
}

func TestMetrics_RecordRender(t *testing.T) {
	m := NewMetrics()
	m.RecordRender(10 * time.Millisecond)
	m.RecordRender(20 * time.Millisecond)
	m.RecordRender(0)

	snapshot := m.Snapshot()
	if snapshot.RenderCount != 3 {
		t.Errorf("expected 3 renders, got %d", snapshot.RenderCount)
	}
	if snapshot.AvgRender != 10*time.Millisecond {
		t.Errorf("expected avg 10ms, got %v", snapshot.AvgRender)
	}
	if snapshot.MaxRender != 20*time.Millisecond {
		t.Errorf("expected max 20ms, got %v", snapshot.MaxRender)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordEvent()
			m.RecordReload()
		}()
	}
	wg.Wait()
	m.RecordFlash()

	snapshot := m.Snapshot()
	if snapshot.EventCount != 10 || snapshot.ReloadCount != 10 {
		t.Errorf("expected 10 events and reloads, got %+v", snapshot)
	}
	if snapshot.FlashCount != 1 {
		t.Errorf("expected 1 flash, got %d", snapshot.FlashCount)
	}
}

func TestMetricsSnapshot_KeysAndValues(t *testing.T) {
	kv := NewMetrics().Snapshot().KeysAndValues()
	if len(kv)%2 != 0 {
		t.Fatalf("odd number of elements: %d", len(kv))
	}
	for i := 0; i < len(kv); i += 2 {
		if _, ok := kv[i].(string); !ok {
			t.Errorf("key %d is %T, want string", i, kv[i])
		}
	}
}
