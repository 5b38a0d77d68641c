package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stocksim/stocksim/sim"
)

var (
	logLevel       string // Log verbosity level
	summaryOnly    bool   // Print statistics instead of the full ledger
	runConfigFlags configFlags
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "stocksim",
	Short:         "Deterministic perishable-inventory simulator and policy optimizer",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", logLevel)
		}
		logrus.SetLevel(level)
		return nil
	},
}

// runCmd simulates one configuration and prints the result as JSON
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one inventory simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := runConfigFlags.resolve(cmd.Flags())
		if err != nil {
			return err
		}
		logrus.Infof("Starting simulation: %d days, consumption=%g, max_order=%d, policy=%s",
			cfg.SimulationDays, cfg.DailyConsumption, cfg.MaxOrderQuantity, cfg.Normalized().OutstandingPolicy)

		res, err := sim.Simulate(cfg)
		if err != nil {
			return err
		}
		logrus.Info("Simulation complete.")
		if summaryOnly {
			return writeJSON(cmd.OutOrStdout(), res.Statistics)
		}
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// errorBody is the payload printed for a failed command.
type errorBody struct {
	Detail string `json:"detail"`
}

// writeDetail prints err as {"detail": ...}. A wrapped validation error is reported unwrapped.
func writeDetail(w io.Writer, err error) {
	detail := err.Error()
	var ve *sim.ConfigValidationError
	if errors.As(err, &ve) {
		detail = ve.Error()
	} else {
		logrus.Errorf("command failed: %v", err)
	}
	_ = writeJSON(w, errorBody{Detail: detail})
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		writeDetail(rootCmd.OutOrStdout(), err)
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runConfigFlags.register(runCmd.Flags())
	runCmd.Flags().BoolVar(&summaryOnly, "summary", false, "Print only the aggregate statistics")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
