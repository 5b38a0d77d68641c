package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stocksim/stocksim/sim"
)

// defaultsFilePath is where presets are looked up unless --defaults says otherwise.
const defaultsFilePath = "defaults.yaml"

// Preset is a named configuration in defaults.yaml.
// Config keys absent from a preset keep their DefaultConfig() values.
type Preset struct {
	Description string    `yaml:"description"`
	Config      yaml.Node `yaml:"config"`
}

// DefaultsFile represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type DefaultsFile struct {
	Version string            `yaml:"version"`
	Presets map[string]Preset `yaml:"presets"`
}

// loadDefaultsConfig parses defaults.yaml with strict field checking.
func loadDefaultsConfig(path string) (*DefaultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading defaults file: %w", err)
	}
	var df DefaultsFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&df); err != nil {
		return nil, fmt.Errorf("parsing defaults file %s: %w", path, err)
	}
	return &df, nil
}

// Preset decodes the named preset over DefaultConfig(), rejecting unknown keys.
func (df *DefaultsFile) Preset(name string) (sim.SimulationConfig, error) {
	p, ok := df.Presets[name]
	if !ok {
		return sim.SimulationConfig{}, fmt.Errorf("unknown preset %q; available: %v", name, df.PresetNames())
	}
	if p.Config.Kind == 0 {
		return sim.DefaultConfig(), nil
	}
	raw, err := yaml.Marshal(&p.Config)
	if err != nil {
		return sim.SimulationConfig{}, fmt.Errorf("preset %s: %w", name, err)
	}
	cfg, err := sim.ParseConfig(raw)
	if err != nil {
		return sim.SimulationConfig{}, fmt.Errorf("preset %s: %w", name, err)
	}
	return cfg, nil
}

// PresetNames returns the preset names in sorted order.
func (df *DefaultsFile) PresetNames() []string {
	names := make([]string, 0, len(df.Presets))
	for name := range df.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// presetSummary is one entry of `defaults --list`.
type presetSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// defaultsOutput is printed by the defaults command.
type defaultsOutput struct {
	Config              sim.SimulationConfig `json:"config"`
	OutstandingPolicies []string             `json:"outstanding_policies"`
	OverflowPolicies    []string             `json:"overflow_policies"`
	LeadTimeModes       []string             `json:"lead_time_modes"`
}

var (
	defaultsPreset string
	defaultsPath   string
	defaultsList   bool
)

// defaultsCmd prints the default configuration, one preset, or the preset list
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default configuration or a named preset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if defaultsList {
			df, err := loadDefaultsConfig(defaultsPath)
			if err != nil {
				return err
			}
			out := make([]presetSummary, 0, len(df.Presets))
			for _, name := range df.PresetNames() {
				out = append(out, presetSummary{Name: name, Description: df.Presets[name].Description})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		}

		cfg := sim.DefaultConfig()
		if defaultsPreset != "" {
			df, err := loadDefaultsConfig(defaultsPath)
			if err != nil {
				return err
			}
			if cfg, err = df.Preset(defaultsPreset); err != nil {
				return err
			}
		}
		return writeJSON(cmd.OutOrStdout(), defaultsOutput{
			Config:              cfg.Normalized(),
			OutstandingPolicies: sim.OutstandingPolicyNames(),
			OverflowPolicies:    sim.OverflowPolicyNames(),
			LeadTimeModes:       sim.LeadTimeModeNames(),
		})
	},
}

func init() {
	defaultsCmd.Flags().StringVar(&defaultsPreset, "preset", "", "Preset to print instead of the built-in defaults")
	defaultsCmd.Flags().StringVar(&defaultsPath, "defaults", defaultsFilePath, "Path to the defaults file holding presets")
	defaultsCmd.Flags().BoolVar(&defaultsList, "list", false, "List the available presets")

	rootCmd.AddCommand(defaultsCmd)
}
