package experiments

import (
	"errors"
	"fmt"
	"io"
	"time"

	"deathroll/calc"
	"deathroll/config"
	"deathroll/experiments/metrics"
	"deathroll/simulator"
	"deathroll/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Run computes the exact and simulated statistics for every bound in
// [cfg.Min, cfg.Max]. Timing lines go to diagnostics when cfg.TimeInfo is set;
// failing to write them is logged and does not fail the run.
func Run(cfg config.Config, engine *calc.Engine, diagnostics io.Writer) ([]metrics.Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bounds := utils.Steps(cfg.Min, cfg.Max+1, 1)

	log.Info().Msgf("starting sweep over bounds [%d, %d] with %d trials each...", cfg.Min, cfg.Max, cfg.Trials)

	var (
		winProbs  []float64
		expRolls  []float64
		estimates []simulator.Estimate
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		if winProbs, err = engine.WinProbabilityRange(cfg.Min, cfg.Max+1, 1); err != nil {
			return fmt.Errorf("win probabilities: %w", err)
		}
		if expRolls, err = engine.ExpectedRollsRange(cfg.Min, cfg.Max+1, 1); err != nil {
			return fmt.Errorf("expected rolls: %w", err)
		}
		log.Info().Msgf("computed exact values up to bound %d", cfg.Max)
		return nil
	})
	g.Go(func() error {
		var err error
		estimates, err = newSimulator(cfg, diagnostics).RunAll(bounds)
		if errors.Is(err, simulator.ErrDiagnosticsIO) {
			log.Warn().Err(err).Msg("timing diagnostics were not fully written")
			err = nil
		}
		if err != nil {
			return fmt.Errorf("monte carlo: %w", err)
		}
		log.Info().Msgf("simulated %d bounds", len(estimates))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]metrics.Record, len(bounds))
	for i, bound := range bounds {
		records[i] = metrics.Record{
			Bound:            bound,
			WinProb:          winProbs[i],
			ExpRolls:         expRolls[i],
			SimWinRate:       estimates[i].WinRate,
			SimMeanRolls:     estimates[i].MeanRolls,
			SimulationMetric: estimates[i].Metric,
		}
	}

	log.Info().Msg("completed sweep")
	return records, nil
}

func newSimulator(cfg config.Config, diagnostics io.Writer) *simulator.Simulator {
	options := []simulator.Option{
		simulator.WithTrials(cfg.Trials),
		simulator.WithGoroutines(cfg.Goroutines),
		simulator.WithMetrics(),
	}
	if cfg.Seed != 0 {
		options = append(options, simulator.WithSeed(cfg.Seed))
	}
	if cfg.TimeInfo && diagnostics != nil {
		options = append(options, simulator.WithDiagnostics(diagnostics))
	}
	return simulator.New(options...)
}

// Store writes the run setup and records under cfg.OutDir and returns the
// directory it created.
func Store(cfg config.Config, records []metrics.Record, start, end time.Time) (string, error) {
	writer, err := metrics.NewWriter(cfg.OutDir)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	setup := metrics.Setup{
		ID:         uuid.NewString(),
		Min:        cfg.Min,
		Max:        cfg.Max,
		Trials:     cfg.Trials,
		Goroutines: cfg.Goroutines,
		Seed:       cfg.Seed,
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
	}
	if err := writer.WriteSetup(setup); err != nil {
		return "", fmt.Errorf("failed to store setup: %w", err)
	}
	log.Info().Msgf("stored setup of run %s", setup.ID)

	if err := writer.WriteRecords(records); err != nil {
		return "", fmt.Errorf("failed to write records: %w", err)
	}
	log.Info().Msgf("stored %d records", len(records))

	return writer.Dir(), nil
}
