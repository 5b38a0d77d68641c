// Package testutil provides shared test infrastructure for the stock simulator.
// It holds the golden dataset types and assertion helpers used across the sim/
// test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one reference run: a config and the metrics it must reproduce.
// Config is kept raw so this package does not depend on sim.
type GoldenTestCase struct {
	Name    string          `json:"name"`
	Config  json.RawMessage `json:"config"`
	Metrics GoldenMetrics   `json:"metrics"`
}

// GoldenMetrics represents the expected outcome of a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	StockoutsCount int `json:"stockouts_count"`
	TotalOrdered   int `json:"total_ordered"`
	TotalEvents    int `json:"total_events"`
	TotalOrders    int `json:"total_orders"`

	// Deterministic floating-point metrics (ledger fold)
	FinalStock     float64 `json:"final_stock"`
	AverageStock   float64 `json:"average_stock"`
	MinStock       float64 `json:"min_stock"`
	MaxStock       float64 `json:"max_stock"`
	TotalDelivered float64 `json:"total_delivered"`
	TotalConsumed  float64 `json:"total_consumed"`
	TotalOverflow  float64 `json:"total_overflow"`

	// Trailing 30-day trend (endpoint method) and the default viability verdict
	Trend           string  `json:"trend"`
	AvgChangePerDay float64 `json:"avg_change_per_day"`
	Viable          bool    `json:"viable"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
