package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a SimulationConfig from a YAML file.
// Keys absent from the file keep their DefaultConfig() values; unknown keys are
// rejected so that typos cannot silently fall back to a default.
// The returned config is not validated; callers run Validate() or Simulate().
func LoadConfig(path string) (SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("reading simulation config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes over DefaultConfig() with strict field checking.
func ParseConfig(data []byte) (SimulationConfig, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return SimulationConfig{}, fmt.Errorf("parsing simulation config: %w", err)
	}
	return cfg, nil
}

// OutstandingPolicyNames returns the sorted non-empty outstanding policy names.
func OutstandingPolicyNames() []string {
	return sortedNames(validOutstandingPolicies)
}

// OverflowPolicyNames returns the sorted non-empty overflow policy names.
func OverflowPolicyNames() []string {
	return sortedNames(validOverflowPolicies)
}

// LeadTimeModeNames returns the sorted non-empty lead time mode names.
func LeadTimeModeNames() []string {
	return sortedNames(validLeadTimeModes)
}

func sortedNames[K ~string](m map[K]bool) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			names = append(names, string(k))
		}
	}
	sort.Strings(names)
	return names
}
