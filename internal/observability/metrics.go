package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters keyed by route template, method and outcome.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration map[string]time.Duration
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests map[string]int64 `json:"requests"`
	Errors   map[string]int64 `json:"errors"`
	// AvgMillis is the mean request duration per request key.
	AvgMillis map[string]float64 `json:"avgMillis"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		totalDuration: make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := pathKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Requests:  map[string]int64{},
		Errors:    map[string]int64{},
		AvgMillis: map[string]float64{},
	}
	if m == nil {
		return s
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		s.Requests[k] = v
		if v > 0 {
			s.AvgMillis[k] = float64(m.totalDuration[k].Microseconds()) / 1000 / float64(v)
		}
	}
	for k, v := range m.errorCount {
		s.Errors[k] = v
	}
	return s
}

func pathKey(path, method, outcome string) string {
	return method + " " + path + "|" + outcome
}
