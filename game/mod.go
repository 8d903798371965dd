package game

import (
	"errors"

	"golang.org/x/exp/rand"
)

// ErrInvalidArgument is returned when a bound, trial count or step is not usable.
var ErrInvalidArgument = errors.New("invalid argument")

type Player int

const (
	NoPlayer Player = iota
	FirstPlayer
	SecondPlayer
)

func (p Player) Other() Player {
	switch p {
	case FirstPlayer:
		return SecondPlayer
	case SecondPlayer:
		return FirstPlayer
	default:
		return NoPlayer
	}
}

func (p Player) String() string {
	switch p {
	case FirstPlayer:
		return "1st"
	case SecondPlayer:
		return "2nd"
	default:
		return "none"
	}
}

// Roller draws uniformly from [0, n).
type Roller interface {
	Intn(n int) int
}

type globalRoller struct{}

func (globalRoller) Intn(n int) int {
	return rand.Intn(n)
}

// Global is the process-wide generator shared by every game built without WithRoller.
var Global Roller = globalRoller{}

// Seed reseeds the process-wide generator.
func Seed(seed uint64) {
	rand.Seed(seed)
}

// NewRoller returns an independent stream, not safe for concurrent use.
func NewRoller(seed uint64) Roller {
	return rand.New(rand.NewSource(seed))
}
