package monitor

import (
	"sync"
	"time"
)

// RunMetrics collects counters for one optimizer run.
type RunMetrics struct {
	mu                sync.RWMutex
	generations       int64
	totalDuration     time.Duration
	maxDuration       time.Duration
	slowThreshold     time.Duration
	slowGenerations   int64
	mutationFlips     int64
	disasters         int64
	eliteRestorations int64
	improvements      int64
	lastImprovement   int
	startTime         time.Time
}

// NewRunMetrics creates a collector. Generations slower than slowThreshold
// are counted as slow; zero disables the check.
func NewRunMetrics(slowThreshold time.Duration) *RunMetrics {
	return &RunMetrics{
		slowThreshold: slowThreshold,
		startTime:     time.Now(),
	}
}

// RecordGeneration records one completed generation.
func (m *RunMetrics) RecordGeneration(duration time.Duration, flips int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations++
	m.totalDuration += duration
	m.mutationFlips += int64(flips)
	if duration > m.maxDuration {
		m.maxDuration = duration
	}
	if m.slowThreshold > 0 && duration >= m.slowThreshold {
		m.slowGenerations++
	}
}

// RecordDisaster counts an applied disaster.
func (m *RunMetrics) RecordDisaster() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disasters++
}

// RecordEliteRestore counts a generation where elitism overwrote slot 0.
func (m *RunMetrics) RecordEliteRestore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eliteRestorations++
}

// RecordImprovement counts a new best-overall found at generation.
func (m *RunMetrics) RecordImprovement(generation int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.improvements++
	m.lastImprovement = generation
}

// GetGenerations returns the number of recorded generations.
func (m *RunMetrics) GetGenerations() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generations
}

// GetAvgDuration returns the mean generation duration.
func (m *RunMetrics) GetAvgDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.generations == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.generations)
}

// Reset clears every counter.
func (m *RunMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations = 0
	m.totalDuration = 0
	m.maxDuration = 0
	m.slowGenerations = 0
	m.mutationFlips = 0
	m.disasters = 0
	m.eliteRestorations = 0
	m.improvements = 0
	m.lastImprovement = 0
	m.startTime = time.Now()
}

// Snapshot is a point-in-time copy of RunMetrics.
type Snapshot struct {
	Generations       int64         `json:"generations"`
	TotalDuration     time.Duration `json:"total_duration"`
	AvgDuration       time.Duration `json:"avg_duration"`
	MaxDuration       time.Duration `json:"max_duration"`
	SlowGenerations   int64         `json:"slow_generations"`
	MutationFlips     int64         `json:"mutation_flips"`
	Disasters         int64         `json:"disasters"`
	EliteRestorations int64         `json:"elite_restorations"`
	Improvements      int64         `json:"improvements"`
	LastImprovement   int           `json:"last_improvement"`
	Uptime            time.Duration `json:"uptime"`
}

// GetSnapshot copies the current counters.
func (m *RunMetrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var avg time.Duration
	if m.generations > 0 {
		avg = m.totalDuration / time.Duration(m.generations)
	}

	return Snapshot{
		Generations:       m.generations,
		TotalDuration:     m.totalDuration,
		AvgDuration:       avg,
		MaxDuration:       m.maxDuration,
		SlowGenerations:   m.slowGenerations,
		MutationFlips:     m.mutationFlips,
		Disasters:         m.disasters,
		EliteRestorations: m.eliteRestorations,
		Improvements:      m.improvements,
		LastImprovement:   m.lastImprovement,
		Uptime:            time.Since(m.startTime),
	}
}
