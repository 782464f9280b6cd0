package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementCounter("trips_assigned")
	m.IncrementCounter("trips_assigned")
	m.IncrementCounterBy("deliveries_confirmed", 5)

	counters := m.GetCounters()
	require.Equal(t, int64(2), counters["trips_assigned"])
	require.Equal(t, int64(5), counters["deliveries_confirmed"])
}

func TestCountersConcurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.IncrementCounter("loadings_recorded")
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(5000), m.GetCounters()["loadings_recorded"])
}

func TestGauges(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("open_trips", 7)
	m.SetGauge("open_trips", 3)

	require.Equal(t, int64(3), m.GetGauges()["open_trips"])
}

func TestTimers(t *testing.T) {
	m := NewMetrics()

	m.RecordTimer("assign_trip", 10)
	m.RecordTimer("assign_trip", 30)
	m.RecordTimer("assign_trip", 20)

	timers := m.GetTimers()
	tm := timers["assign_trip"]
	require.Equal(t, int64(3), tm.Count)
	require.Equal(t, int64(60), tm.TotalTimeMs)
	require.Equal(t, int64(30), tm.MaxTimeMs)
	require.InDelta(t, 20.0, tm.AverageTimeMs, 0.001)
}

func TestGetAllMetrics(t *testing.T) {
	m := NewMetrics()
	m.IncrementCounter("orders_created")

	all := m.GetAllMetrics()
	require.Contains(t, all, "uptime_seconds")
	require.Contains(t, all, "counters")
	require.Contains(t, all, "gauges")
	require.Contains(t, all, "timers")
}
