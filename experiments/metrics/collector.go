package metrics

import (
	"sync/atomic"
	"time"
)

// SimulationMetric describes one Monte Carlo run for a single bound.
type SimulationMetric struct {
	Bound      int
	Goroutines int
	Trials     int
	Decisive   int // games with a winner
	FirstWins  int
	Rolls      int64
	StartTime  time.Time
	Duration   time.Duration
}

// TrialsPerSecond is zero until the run has a measurable duration.
func (m SimulationMetric) TrialsPerSecond() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Trials) / m.Duration.Seconds()
}

type Collector interface {
	Start(bound, goroutines int)
	AddTrials(trials, decisive, firstWins int, rolls int64)
	Complete() SimulationMetric
}

type collector struct {
	bound      int
	goroutines int
	startTime  time.Time
	trials     atomic.Int64
	decisive   atomic.Int64
	firstWins  atomic.Int64
	rolls      atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(bound, goroutines int) {
	m.startTime = time.Now()
	m.bound = bound
	m.goroutines = goroutines
	m.trials.Store(0)
	m.decisive.Store(0)
	m.firstWins.Store(0)
	m.rolls.Store(0)
}

func (m *collector) AddTrials(trials, decisive, firstWins int, rolls int64) {
	m.trials.Add(int64(trials))
	m.decisive.Add(int64(decisive))
	m.firstWins.Add(int64(firstWins))
	m.rolls.Add(rolls)
}

func (m *collector) Complete() SimulationMetric {
	return SimulationMetric{
		Bound:      m.bound,
		Goroutines: m.goroutines,
		Trials:     int(m.trials.Load()),
		Decisive:   int(m.decisive.Load()),
		FirstWins:  int(m.firstWins.Load()),
		Rolls:      m.rolls.Load(),
		StartTime:  m.startTime,
		Duration:   time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(bound, goroutines int)                            {}
func (m *dummyCollector) AddTrials(trials, decisive, firstWins int, rolls int64) {}
func (m *dummyCollector) Complete() SimulationMetric                             { return SimulationMetric{} }
