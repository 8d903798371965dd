// Package calc computes exact Deathroll statistics from the game's absorbing
// recurrences.
//
// For a starting bound n >= 2, with L the probability that the first roller
// loses and R the expected roll count:
//
//	L(n) = (2 + S(n-1)) / (n + 1)    S(n) = S(n-1) + (1 - L(n)),  S(1) = 0
//	R(n) = (n + T(n-1)) / (n - 1)    T(n) = T(n-1) + R(n),        T(1) = 0
//
// The first player's win probability is 1 - L(n). Bound 1 is a degenerate game
// pinned to a win probability of 1 and R(1) = 1.
package calc

import (
	"fmt"
	"sync"

	"deathroll/game"
	"deathroll/utils"

	"github.com/rs/zerolog/log"
)

// Engine memoizes the recurrences in append-only tables. Index i holds bound i+1.
// It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	win     []float64 // 1 - L(n)
	winSum  []float64 // S(n)
	rolls   []float64 // R(n)
	rollSum []float64 // T(n)
}

func NewEngine() *Engine {
	return &Engine{
		win:     []float64{1},
		winSum:  []float64{0},
		rolls:   []float64{1},
		rollSum: []float64{0},
	}
}

// Default backs the package-level functions.
var Default = NewEngine()

func WinProbability(n int) (float64, error) { return Default.WinProbability(n) }

func ExpectedRolls(n int) (float64, error) { return Default.ExpectedRolls(n) }

func WinProbabilityRange(start, stop, step int) ([]float64, error) {
	return Default.WinProbabilityRange(start, stop, step)
}

func ExpectedRollsRange(start, stop, step int) ([]float64, error) {
	return Default.ExpectedRollsRange(start, stop, step)
}

// WinProbability returns the probability that the player rolling first wins
// a game starting at bound n.
func (e *Engine) WinProbability(n int) (float64, error) {
	if err := checkBound(n); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.extend(n)
	return e.win[n-1], nil
}

// ExpectedRolls returns the expected number of rolls of a game starting at bound n.
func (e *Engine) ExpectedRolls(n int) (float64, error) {
	if err := checkBound(n); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.extend(n)
	return e.rolls[n-1], nil
}

// WinProbabilityRange returns WinProbability for start, start+step, ... excluding stop.
func (e *Engine) WinProbabilityRange(start, stop, step int) ([]float64, error) {
	return e.series(start, stop, step, func() []float64 { return e.win })
}

// ExpectedRollsRange returns ExpectedRolls for start, start+step, ... excluding stop.
func (e *Engine) ExpectedRollsRange(start, stop, step int) ([]float64, error) {
	return e.series(start, stop, step, func() []float64 { return e.rolls })
}

// Len returns the highest bound computed so far.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.win)
}

func (e *Engine) series(start, stop, step int, table func() []float64) ([]float64, error) {
	if step == 0 {
		return nil, fmt.Errorf("step must be nonzero: %w", game.ErrInvalidArgument)
	}
	bounds := utils.Steps(start, stop, step)
	if len(bounds) == 0 {
		return []float64{}, nil
	}
	// The smallest bound is the first or the last depending on direction
	lowest, highest := bounds[0], bounds[len(bounds)-1]
	if step < 0 {
		lowest, highest = highest, lowest
	}
	if err := checkBound(lowest); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.extend(highest)
	values := table()
	out := make([]float64, len(bounds))
	for i, n := range bounds {
		out[i] = values[n-1]
	}
	return out, nil
}

// extend fills every table up to bound n in increasing order. Callers hold mu.
func (e *Engine) extend(n int) {
	from := len(e.win)
	if n <= from {
		return
	}
	if n-from > 1 {
		log.Debug().Msgf("extending recurrence tables from bound %d to %d", from, n)
	}

	for k := from + 1; k <= n; k++ {
		prevWinSum := e.winSum[k-2]
		loss := (2 + prevWinSum) / float64(k+1)
		win := 1 - loss
		e.win = append(e.win, win)
		e.winSum = append(e.winSum, prevWinSum+win)

		prevRollSum := e.rollSum[k-2]
		rolls := (float64(k) + prevRollSum) / float64(k-1)
		e.rolls = append(e.rolls, rolls)
		e.rollSum = append(e.rollSum, prevRollSum+rolls)
	}
}

func checkBound(n int) error {
	if n < 1 {
		return fmt.Errorf("bound %d is not positive: %w", n, game.ErrInvalidArgument)
	}
	return nil
}
