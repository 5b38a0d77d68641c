package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stocksim/stocksim/sim/optimize"
)

var (
	optimizeConfigFlags configFlags
	optimizeSearchFlags searchFlags
)

// optimizeCmd searches viability boundaries and proposes a configuration
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Find viability boundaries and an optimal configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := optimizeConfigFlags.resolve(cmd.Flags())
		if err != nil {
			return err
		}
		opts, err := optimizeSearchFlags.options()
		if err != nil {
			return err
		}
		ctx, cancel := optimizeSearchFlags.context(cmd.Context())
		defer cancel()

		res, err := optimize.Optimize(ctx, cfg, opts)
		if err != nil {
			return err
		}
		if res.Truncated {
			logrus.Warnf("optimization stopped early after %d trials: %v", res.TotalTrials, ctx.Err())
		}
		if err := optimizeSearchFlags.writeTrace(opts.Trace); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	optimizeConfigFlags.register(optimizeCmd.Flags())
	optimizeSearchFlags.register(optimizeCmd.Flags())

	rootCmd.AddCommand(optimizeCmd)
}
