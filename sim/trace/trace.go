package trace

import (
	"sort"
	"sync"
)

// TraceLevel controls the verbosity of search tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTrials captures every simulated trial.
	TraceLevelTrials TraceLevel = "trials"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelTrials: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SearchTrace collects trial records during a search. Safe for concurrent use;
// a nil *SearchTrace records nothing.
type SearchTrace struct {
	Config TraceConfig

	mu     sync.Mutex
	trials []TrialRecord
}

// NewSearchTrace creates a SearchTrace ready for recording.
func NewSearchTrace(config TraceConfig) *SearchTrace {
	return &SearchTrace{
		Config: config,
		trials: make([]TrialRecord, 0),
	}
}

// Enabled reports whether trials are being recorded.
func (st *SearchTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelTrials
}

// RecordTrial appends a trial record.
func (st *SearchTrace) RecordTrial(record TrialRecord) {
	if !st.Enabled() {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.trials = append(st.trials, record)
}

// Trials returns a copy of the records ordered by (max order, consumption).
// Trials run concurrently, so recording order is not meaningful.
func (st *SearchTrace) Trials() []TrialRecord {
	if st == nil {
		return nil
	}
	st.mu.Lock()
	out := make([]TrialRecord, len(st.trials))
	copy(out, st.trials)
	st.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MaxOrderQuantity != out[j].MaxOrderQuantity {
			return out[i].MaxOrderQuantity < out[j].MaxOrderQuantity
		}
		return out[i].DailyConsumption < out[j].DailyConsumption
	})
	return out
}
