package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stocksim/stocksim/sim/analysis"
)

var (
	analyzeConfigFlags configFlags
	analyzeSearchFlags searchFlags
)

// analyzeCmd simulates a configuration and reports viability, trend and findings
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the viability of one configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := analyzeConfigFlags.resolve(cmd.Flags())
		if err != nil {
			return err
		}
		opts, err := analyzeSearchFlags.options()
		if err != nil {
			return err
		}
		ctx, cancel := analyzeSearchFlags.context(cmd.Context())
		defer cancel()

		res, err := analysis.Analyze(ctx, cfg, opts)
		if err != nil {
			return err
		}
		if res.StabilitySolutions.Truncated {
			logrus.Warnf("stability search stopped early: %v", ctx.Err())
		}
		if err := analyzeSearchFlags.writeTrace(opts.Trace); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	analyzeConfigFlags.register(analyzeCmd.Flags())
	analyzeSearchFlags.register(analyzeCmd.Flags())

	rootCmd.AddCommand(analyzeCmd)
}
