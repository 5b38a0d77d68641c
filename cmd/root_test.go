package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksim/stocksim/sim"
	"github.com/stocksim/stocksim/sim/analysis"
	"github.com/stocksim/stocksim/sim/optimize"
)

func TestRunCommand_PrintsFullResult(t *testing.T) {
	// GIVEN the built-in defaults
	out, err := executeCommand(t, "run")

	// THEN the result JSON carries one ledger row per day
	require.NoError(t, err)
	var res sim.SimulationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.DailyDetails, 60)
	assert.Equal(t, 0, res.Statistics.StockoutsCount)
	assert.Equal(t, 13, res.Statistics.TotalOrders)
}

func TestRunCommand_SummaryWithOverrides(t *testing.T) {
	out, err := executeCommand(t, "run", "--summary", "--initial-stock", "20", "--daily-consumption", "6", "--no-sales-gate")

	require.NoError(t, err)
	var st sim.SimulationStatistics
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 32, st.StockoutsCount)
	assert.Equal(t, 20, st.TotalOrders)
}

func TestRunCommand_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	_, err := executeCommand(t, "run", "--summary", "--simulation-days", "5")
	require.NoError(t, err)

	out, err := executeCommand(t, "run")
	require.NoError(t, err)

	var res sim.SimulationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.DailyDetails, 60)
}

func TestRunCommand_InvalidConfigReturnsValidationError(t *testing.T) {
	_, err := executeCommand(t, "run", "--reorder-threshold", "50")

	var ve *sim.ConfigValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "reorder_threshold", ve.Field)
}

func TestRootCommand_RejectsBadLogLevel(t *testing.T) {
	_, err := executeCommand(t, "run", "--log", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestWriteDetail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation error",
			err:  &sim.ConfigValidationError{Field: "lot_size", Detail: "must be positive, got 0"},
			want: `{"detail":"invalid config: lot_size: must be positive, got 0"}`,
		},
		{
			name: "wrapped validation error is unwrapped",
			err:  fmt.Errorf("preset x: %w", &sim.ConfigValidationError{Field: "max_stock", Detail: "must be positive, got 0"}),
			want: `{"detail":"invalid config: max_stock: must be positive, got 0"}`,
		},
		{
			name: "other error",
			err:  errors.New("reading defaults file: missing"),
			want: `{"detail":"reading defaults file: missing"}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeDetail(&buf, tc.err)
			assert.JSONEq(t, tc.want, buf.String())
		})
	}
}

func TestAnalyzeCommand_Preset(t *testing.T) {
	out, err := executeCommand(t, "analyze", "--defaults", testDefaultsPath(t), "--preset", "stocked", "--workers", "2")

	require.NoError(t, err)
	var res analysis.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Viability.IsViable)
	assert.Equal(t, analysis.StatusStable, res.StabilitySolutions.Status)
}

func TestAnalyzeCommand_RejectsUnknownCriterion(t *testing.T) {
	_, err := executeCommand(t, "analyze", "--viability", "stddev")
	assert.ErrorContains(t, err, "unknown viability criterion")
}

func TestOptimizeCommand_Preset(t *testing.T) {
	out, err := executeCommand(t, "optimize", "--defaults", testDefaultsPath(t), "--preset", "stocked")

	require.NoError(t, err)
	var res optimize.OptimizationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.OptimalConfiguration)
	assert.Equal(t, 2.4, res.OptimalConfiguration.DailyConsumption)
	assert.Equal(t, 10, res.OptimalConfiguration.MaxOrderQuantity)
	assert.False(t, res.Truncated)
}

func TestOptimizeCommand_RejectsNegativeTimeout(t *testing.T) {
	_, err := executeCommand(t, "optimize", "--timeout=-1s")
	assert.ErrorContains(t, err, "timeout must be >= 0")
}

func TestDefaultsCommand(t *testing.T) {
	out, err := executeCommand(t, "defaults")

	require.NoError(t, err)
	var got defaultsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sim.DefaultConfig().Normalized(), got.Config)
	assert.Equal(t, []string{"allow-overflow", "clamp", "defer"}, got.OverflowPolicies)
	assert.Equal(t, []string{"multiple-outstanding", "single-outstanding"}, got.OutstandingPolicies)
	assert.Equal(t, []string{"calendar-days", "working-days"}, got.LeadTimeModes)
}

func TestDefaultsCommand_List(t *testing.T) {
	out, err := executeCommand(t, "defaults", "--defaults", testDefaultsPath(t), "--list")

	require.NoError(t, err)
	var got []presetSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"default", "overdemand", "pipeline", "stocked", "weekly-supplier"}, names)
}

func TestOptimizeCommand_WritesTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")

	out, err := executeCommand(t, "optimize", "--no-sales-gate", "--initial-stock", "40",
		"--workers", "1", "--trace-level", "trials", "--trace-out", path)

	require.NoError(t, err)
	var res optimize.OptimizationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report traceReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Len(t, report.Trials, res.TotalTrials)
	assert.Equal(t, res.TotalTrials, report.Summary.TotalTrials)
}

func TestAnalyzeCommand_RejectsUnknownTraceLevel(t *testing.T) {
	_, err := executeCommand(t, "analyze", "--trace-level", "decisions")
	assert.ErrorContains(t, err, "unknown trace level")
}
