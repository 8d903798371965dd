package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Record compares the exact and simulated statistics of one starting bound.
type Record struct {
	Bound        int
	WinProb      float64
	ExpRolls     float64
	SimWinRate   float64
	SimMeanRolls float64
	SimulationMetric
}

type Setup struct {
	ID         string        `json:"id"`
	Min        int           `json:"min"`
	Max        int           `json:"max"`
	Trials     int           `json:"trials"`
	Goroutines int           `json:"goroutines"`
	Seed       uint64        `json:"seed,omitempty"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Duration   time.Duration `json:"duration"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of dir named by the current timestamp.
func NewWriter(dir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(dir, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSetup(setup Setup) error {
	path := filepath.Join(w.baseDir, "setup.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create setup file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(setup); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}
	return nil
}

func (w *Writer) WriteRecords(records []Record) error {
	path := filepath.Join(w.baseDir, "results.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"n", "win_prob", "expected_rolls", "mc_win_rate", "mc_mean_rolls", "trials", "decisive", "goroutines", "duration"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Bound),
			formatFloat(record.WinProb),
			formatFloat(record.ExpRolls),
			formatFloat(record.SimWinRate),
			formatFloat(record.SimMeanRolls),
			strconv.Itoa(record.Trials),
			strconv.Itoa(record.Decisive),
			strconv.Itoa(record.Goroutines),
			record.Duration.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write result row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush results: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
