package simulator

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"deathroll/experiments/metrics"
	"deathroll/game"
	"deathroll/meta"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// ErrDiagnosticsIO is returned when timing diagnostics cannot be written. The
// estimates returned alongside it are complete.
var ErrDiagnosticsIO = errors.New("diagnostics i/o")

type Option func(s *Simulator)

// Estimate is the Monte Carlo approximation for one starting bound.
type Estimate struct {
	Bound     int
	WinRate   float64 // first player wins over decisive games
	MeanRolls float64 // over all trials
	Trials    int
	Decisive  int
	Metric    metrics.SimulationMetric
}

type Simulator struct {
	trials      int
	goroutines  int
	seed        uint64
	seeded      bool
	diagnostics io.Writer
	newMetrics  func() metrics.Collector
}

func WithTrials(trials int) Option {
	return func(s *Simulator) {
		s.trials = trials
	}
}

func WithGoroutines(goroutines int) Option {
	return func(s *Simulator) {
		if goroutines > 0 {
			s.goroutines = goroutines
		}
	}
}

// WithSeed gives every run its own reproducible streams instead of drawing on
// the process-wide generator.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.seed = seed
		s.seeded = true
	}
}

// WithDiagnostics prints start and elapsed time lines for every bound to w.
func WithDiagnostics(w io.Writer) Option {
	return func(s *Simulator) {
		s.diagnostics = w
	}
}

func WithMetrics() Option {
	return func(s *Simulator) {
		s.newMetrics = metrics.NewCollector
	}
}

func New(options ...Option) *Simulator {
	s := &Simulator{ // Default values
		trials:     meta.DEFAULT_TRIALS,
		goroutines: 1,
		newMetrics: metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Simulator) Trials() int {
	return s.trials
}

// Run plays the configured number of games from bound. A diagnostics failure
// is reported with the finished estimate.
func (s *Simulator) Run(bound int) (Estimate, error) {
	if err := s.check(bound); err != nil {
		return Estimate{}, err
	}
	return s.run(bound)
}

// RunAll estimates every bound in order. Bounds are validated before any game
// is played.
func (s *Simulator) RunAll(bounds []int) ([]Estimate, error) {
	for _, bound := range bounds {
		if err := s.check(bound); err != nil {
			return nil, err
		}
	}

	var diagErr error
	estimates := make([]Estimate, 0, len(bounds))
	for _, bound := range bounds {
		estimate, err := s.run(bound)
		if err != nil && diagErr == nil {
			diagErr = err
		}
		estimates = append(estimates, estimate)
	}
	return estimates, diagErr
}

// Table returns one (win rate, mean rolls) row per bound.
func (s *Simulator) Table(bounds []int) ([][2]float64, error) {
	estimates, err := s.RunAll(bounds)
	if estimates == nil {
		return nil, err
	}
	rows := make([][2]float64, len(estimates))
	for i, e := range estimates {
		rows[i] = [2]float64{e.WinRate, e.MeanRolls}
	}
	return rows, err
}

func (s *Simulator) check(bound int) error {
	if bound < 1 {
		return fmt.Errorf("bound %d is not positive: %w", bound, game.ErrInvalidArgument)
	}
	if s.trials < 1 {
		return fmt.Errorf("trial count %d is not positive: %w", s.trials, game.ErrInvalidArgument)
	}
	return nil
}

type tally struct {
	trials    int
	decisive  int
	firstWins int
	rolls     int64
}

func (s *Simulator) run(bound int) (Estimate, error) {
	var diagErr error
	if s.diagnostics != nil {
		_, err := fmt.Fprintf(s.diagnostics, "Beginning Monte Carlo simulation for %s deathrolls of initial roll of %d-sided die.\n",
			humanize.Comma(int64(s.trials)), bound)
		if err != nil {
			diagErr = fmt.Errorf("%w: %w", ErrDiagnosticsIO, err)
		}
	}
	start := time.Now()

	collector := s.newMetrics()
	collector.Start(bound, s.goroutines)
	total := s.simulate(bound, collector)
	metric := collector.Complete()

	elapsed := time.Since(start)
	if s.diagnostics != nil && diagErr == nil {
		if _, err := fmt.Fprintf(s.diagnostics, "Time elapsed: %.3fs.\n", elapsed.Seconds()); err != nil {
			diagErr = fmt.Errorf("%w: %w", ErrDiagnosticsIO, err)
		}
	}

	estimate := Estimate{
		Bound:     bound,
		WinRate:   1, // bound 1 never produces a winner
		MeanRolls: float64(total.rolls) / float64(total.trials),
		Trials:    total.trials,
		Decisive:  total.decisive,
		Metric:    metric,
	}
	if total.decisive > 0 {
		estimate.WinRate = float64(total.firstWins) / float64(total.decisive)
	}

	log.Debug().Msgf("simulated %d games from bound %d in %s: win rate %.4f, mean rolls %.4f",
		total.trials, bound, elapsed, estimate.WinRate, estimate.MeanRolls)
	return estimate, diagErr
}

// simulate splits the trials into one fixed chunk per goroutine so that a
// seeded run does not depend on scheduling.
func (s *Simulator) simulate(bound int, collector metrics.Collector) tally {
	workers := min(s.goroutines, s.trials)
	tallies := make([]tally, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		trials := s.trials / workers
		if i < s.trials%workers {
			trials++
		}
		roller := s.roller(bound, i)

		wg.Add(1)
		go func(i, trials int, roller game.Roller) {
			defer wg.Done()

			t := &tallies[i]
			for j := 0; j < trials; j++ {
				g, _ := game.New(bound, game.WithRoller(roller))
				t.trials++
				t.rolls += int64(g.RollCount)
				if g.Decisive() {
					t.decisive++
					if g.Winner == game.FirstPlayer {
						t.firstWins++
					}
				}
			}
			collector.AddTrials(t.trials, t.decisive, t.firstWins, t.rolls)
		}(i, trials, roller)
	}
	wg.Wait()

	var total tally
	for _, t := range tallies {
		total.trials += t.trials
		total.decisive += t.decisive
		total.firstWins += t.firstWins
		total.rolls += t.rolls
	}
	return total
}

func (s *Simulator) roller(bound, worker int) game.Roller {
	switch {
	case s.seeded:
		return game.NewRoller(streamSeed(s.seed, bound, worker))
	case s.goroutines == 1:
		return game.Global
	default:
		return game.NewRoller(rand.Uint64())
	}
}

// streamSeed mixes the run seed with the bound and worker (splitmix64 finalizer).
func streamSeed(seed uint64, bound, worker int) uint64 {
	z := seed ^ uint64(bound)<<32 ^ uint64(worker)
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
