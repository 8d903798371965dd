package game

import (
	"fmt"
	"strings"
)

type Option func(g *Game)

func WithRollLog() Option {
	return func(g *Game) {
		g.logRolls = true
	}
}

func WithRoller(roller Roller) Option {
	return func(g *Game) {
		if roller != nil {
			g.roller = roller
		}
	}
}

// Game is one complete game of Deathroll. It is played to the end inside New.
type Game struct {
	StartBound int
	Bound      int // sides of the die about to be rolled, 1 once the game is over
	RollCount  int
	Active     Player // whose turn it would be next
	Winner     Player // NoPlayer for a game that started at bound 1
	RollLog    []int  // starting bound then every rolled value, nil unless logged

	logRolls bool
	roller   Roller
}

// New plays a game from startBound. A start of 1 is already over: no roll is
// made and there is no winner.
func New(startBound int, options ...Option) (*Game, error) {
	if startBound < 1 {
		return nil, fmt.Errorf("start bound %d is not positive: %w", startBound, ErrInvalidArgument)
	}

	g := &Game{
		StartBound: startBound,
		Bound:      startBound,
		Active:     FirstPlayer,
		roller:     Global,
	}
	for _, option := range options {
		option(g)
	}
	if g.logRolls {
		g.RollLog = []int{startBound}
	}

	for !g.Over() {
		g.roll()
	}
	return g, nil
}

// Simulate plays a game on the process-wide generator.
func Simulate(startBound int, logRolls bool) (*Game, error) {
	if logRolls {
		return New(startBound, WithRollLog())
	}
	return New(startBound)
}

func (g *Game) roll() {
	g.Bound = g.roller.Intn(g.Bound) + 1
	g.RollCount++
	if g.logRolls {
		g.RollLog = append(g.RollLog, g.Bound)
	}
	if g.Bound == 1 {
		// Whoever rolled the 1 loses
		g.Winner = g.Active.Other()
		return
	}
	g.Active = g.Active.Other()
}

func (g *Game) Over() bool {
	return g.Bound == 1
}

// Decisive reports whether the game had a winner, false only for a start of 1.
func (g *Game) Decisive() bool {
	return g.Winner != NoPlayer
}

func (g *Game) String() string {
	var sb strings.Builder
	sb.WriteString("Deathroll game:\n")
	fmt.Fprintf(&sb, "\tStarting roll: %d\n", g.StartBound)
	fmt.Fprintf(&sb, "\tWinner: %s\n", g.Winner)
	fmt.Fprintf(&sb, "\tRoll Count: %d\n", g.RollCount)
	if g.RollLog != nil {
		fmt.Fprintf(&sb, "\tRolls: %v\n", g.RollLog)
	}
	return sb.String()
}

func (g *Game) GoString() string {
	s := fmt.Sprintf("Deathroll(start: %d, bound: %d, rolls: %d, winner: %d", g.StartBound, g.Bound, g.RollCount, g.Winner)
	if g.RollLog != nil {
		s += fmt.Sprintf(", log: %v", g.RollLog)
	}
	return s + ")"
}
