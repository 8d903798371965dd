package main

import (
	"flag"
	"os"
	"time"

	"deathroll/calc"
	"deathroll/config"
	"deathroll/experiments"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	minBound := flag.Int("min", 0, "smallest number of sides for all dice")
	maxBound := flag.Int("max", 0, "largest number of sides for all dice")
	trials := flag.Int("s", 0, "number of simulations to run per n-sided die (default 100000)")
	goroutines := flag.Int("goroutines", 0, "number of goroutines for parallel simulations")
	seed := flag.Uint64("seed", 0, "seed for reproducible simulations")
	timeInfo := flag.Bool("t", false, "print runtime diagnostics to stderr")
	outDir := flag.String("out", "", "directory for experiment results")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Flags override the file and environment only when set
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min":
			cfg.Min = *minBound
		case "max":
			cfg.Max = *maxBound
		case "s":
			cfg.Trials = *trials
		case "goroutines":
			cfg.Goroutines = *goroutines
		case "seed":
			cfg.Seed = *seed
		case "t":
			cfg.TimeInfo = *timeInfo
		case "out":
			cfg.OutDir = *outDir
		}
	})
	// A single positional bound behaves like -min=-max=n
	if flag.NArg() > 0 {
		if err := positionalBounds(&cfg, flag.Args()); err != nil {
			log.Fatal().Err(err).Msg("invalid arguments")
		}
	}

	setupLogger(cfg)

	start := time.Now()
	records, err := experiments.Run(cfg, calc.Default, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
	end := time.Now()

	dir, err := experiments.Store(cfg, records, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to store results")
	}

	last := records[len(records)-1]
	log.Info().
		Int("n", last.Bound).
		Float64("win_prob", last.WinProb).
		Float64("mc_win_rate", last.SimWinRate).
		Float64("expected_rolls", last.ExpRolls).
		Float64("mc_mean_rolls", last.SimMeanRolls).
		Str("dir", dir).
		Msg("finished")
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Msgf("unknown log level %q, using info", cfg.LogLevel)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
