package experiments

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"deathroll/calc"
	"deathroll/config"
	"deathroll/experiments/metrics"
	"deathroll/game"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("closed")
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Min = 1
	cfg.Max = 12
	cfg.Trials = 20_000
	cfg.Goroutines = 4
	cfg.Seed = 11
	cfg.OutDir = t.TempDir()
	return cfg
}

func TestRun(t *testing.T) {
	t.Run("one record per bound", func(t *testing.T) {
		cfg := testConfig(t)
		records, err := Run(cfg, calc.NewEngine(), nil)
		require.NoError(t, err)
		require.Len(t, records, 12)

		for i, r := range records {
			n := i + 1
			require.Equal(t, n, r.Bound)
			require.Equal(t, cfg.Trials, r.Trials)
			if n == 1 {
				require.Equal(t, 1.0, r.WinProb)
				require.Equal(t, 1.0, r.SimWinRate)
				continue
			}
			require.InDelta(t, 0.5-1/float64(n*(n+1)), r.WinProb, 1e-12)
			require.InDelta(t, r.WinProb, r.SimWinRate, 0.02, "bound %d", n)
			require.InDelta(t, r.ExpRolls, r.SimMeanRolls, 0.1, "bound %d", n)
		}
	})

	t.Run("timing diagnostics", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Max = 3
		cfg.TimeInfo = true
		var diag bytes.Buffer

		_, err := Run(cfg, calc.NewEngine(), &diag)
		require.NoError(t, err)
		require.Equal(t, 3, strings.Count(diag.String(), "Beginning Monte Carlo simulation"))
	})

	t.Run("diagnostics failure does not fail the run", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Max = 3
		cfg.TimeInfo = true

		records, err := Run(cfg, calc.NewEngine(), failingWriter{})
		require.NoError(t, err)
		require.Len(t, records, 3)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Min = 0
		engine := calc.NewEngine()

		_, err := Run(cfg, engine, nil)
		require.ErrorIs(t, err, game.ErrInvalidArgument)
		require.Equal(t, 1, engine.Len())
	})
}

func TestStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Max = 4
	records, err := Run(cfg, calc.NewEngine(), nil)
	require.NoError(t, err)

	start := time.Now().Add(-time.Second).UTC()
	dir, err := Store(cfg, records, start, start.Add(time.Second))
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "results.csv"))

	data, err := os.ReadFile(filepath.Join(dir, "setup.json"))
	require.NoError(t, err)
	var setup metrics.Setup
	require.NoError(t, json.Unmarshal(data, &setup))
	_, err = uuid.Parse(setup.ID)
	require.NoError(t, err)
	require.Equal(t, 4, setup.Max)
	require.Equal(t, time.Second, setup.Duration)
}
