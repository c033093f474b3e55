package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for dashboard requests, calls to
// the ticket API and ticket lifecycle events.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	upstreamCount map[string]int64
	upstreamTime  map[string]time.Duration
	eventCount    map[string]int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests       map[string]int64 `json:"requests"`
	Errors         map[string]int64 `json:"errors"`
	Upstream       map[string]int64 `json:"upstream"`
	UpstreamMeanMS map[string]int64 `json:"upstream_mean_ms"`
	Events         map[string]int64 `json:"events"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		upstreamCount: make(map[string]int64),
		upstreamTime:  make(map[string]time.Duration),
		eventCount:    make(map[string]int64),
	}
}

// RecordRequest increments counters for dashboard requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordUpstream counts a call to the ticket API. Status 0 marks a transport failure.
func (m *Metrics) RecordUpstream(endpoint, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(endpoint, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstreamCount[key]++
	m.upstreamTime[key] += duration
}

// RecordEvent counts a ticket lifecycle event.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCount[eventType]++
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Requests:       map[string]int64{},
		Errors:         map[string]int64{},
		Upstream:       map[string]int64{},
		UpstreamMeanMS: map[string]int64{},
		Events:         map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.upstreamCount {
		snap.Upstream[k] = v
		snap.UpstreamMeanMS[k] = (m.upstreamTime[k] / time.Duration(v)).Milliseconds()
	}
	for k, v := range m.eventCount {
		snap.Events[k] = v
	}
	return snap
}

// EventTypes lists the event types seen so far, sorted.
func (s MetricsSnapshot) EventTypes() []string {
	out := make([]string, 0, len(s.Events))
	for k := range s.Events {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
