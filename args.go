package main

import (
	"fmt"
	"strconv"

	"deathroll/config"
	"deathroll/game"
)

// positionalBounds reads "min [max]" arguments into cfg.
func positionalBounds(cfg *config.Config, args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("too many arguments: %w", game.ErrInvalidArgument)
	}

	bounds := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%q is not an integer: %w", arg, game.ErrInvalidArgument)
		}
		if n < 1 {
			return fmt.Errorf("%d is not positive: %w", n, game.ErrInvalidArgument)
		}
		bounds[i] = n
	}

	cfg.Min = bounds[0]
	cfg.Max = bounds[len(bounds)-1]
	return nil
}
