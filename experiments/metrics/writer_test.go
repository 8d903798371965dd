package metrics

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	require.DirExists(t, w.Dir())

	t.Run("writing the setup", func(t *testing.T) {
		start := time.Date(2020, 4, 4, 12, 0, 0, 0, time.UTC)
		setup := Setup{ID: "run", Min: 1, Max: 3, Trials: 10, Goroutines: 2, StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second}
		require.NoError(t, w.WriteSetup(setup))

		data, err := os.ReadFile(filepath.Join(w.Dir(), "setup.json"))
		require.NoError(t, err)
		var got Setup
		require.NoError(t, json.Unmarshal(data, &got))
		require.Equal(t, setup, got)
	})

	t.Run("writing the records", func(t *testing.T) {
		records := []Record{
			{Bound: 1, WinProb: 1, ExpRolls: 1, SimWinRate: 1, SimulationMetric: SimulationMetric{Trials: 10}},
			{Bound: 2, WinProb: 0.25, ExpRolls: 2, SimWinRate: 0.3, SimMeanRolls: 2.1, SimulationMetric: SimulationMetric{Trials: 10, Decisive: 10, Goroutines: 2, Duration: time.Millisecond}},
		}
		require.NoError(t, w.WriteRecords(records))

		f, err := os.Open(filepath.Join(w.Dir(), "results.csv"))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)

		require.Len(t, rows, 3)
		require.Equal(t, "n", rows[0][0])
		require.Equal(t, []string{"2", "0.25", "2", "0.3", "2.1", "10", "10", "2", "1ms"}, rows[2])
	})
}

func TestNewWriterFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewWriter(file)
	require.ErrorContains(t, err, "failed to create directory")
}
