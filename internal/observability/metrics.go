package observability

import (
	"strconv"
	"sync"
)

// Metrics provides basic in-memory counters for workflow runs and HTTP
// traffic. All methods are nil-safe so callers can run without metrics.
type Metrics struct {
	mu           sync.Mutex
	runCount     map[string]int64
	stepRetries  map[string]int64
	stepFailures map[string]int64
	requestCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		runCount:     make(map[string]int64),
		stepRetries:  make(map[string]int64),
		stepFailures: make(map[string]int64),
		requestCount: make(map[string]int64),
	}
}

// RecordRun counts a finished workflow run by pipeline and terminal status.
func (m *Metrics) RecordRun(pipeline, status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runCount[pipeline+"|"+status]++
}

// RecordStepRetry counts a retried step attempt.
func (m *Metrics) RecordStepRetry(step string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepRetries[step]++
}

// RecordStepFailure counts a step failure by error kind (terminal, retriable,
// exhausted, notify).
func (m *Metrics) RecordStepFailure(step, kind string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stepFailures[step+"|"+kind]++
}

// RecordRequest increments counters for HTTP requests.
func (m *Metrics) RecordRequest(path, method string, status int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[path+"|"+method+"|"+strconv.Itoa(status)]++
}

// Snapshot returns a copy of all counters for the metrics endpoint.
func (m *Metrics) Snapshot() map[string]map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]map[string]int64{
		"runs":          copyCounters(m.runCount),
		"step_retries":  copyCounters(m.stepRetries),
		"step_failures": copyCounters(m.stepFailures),
		"requests":      copyCounters(m.requestCount),
	}
}

func copyCounters(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
