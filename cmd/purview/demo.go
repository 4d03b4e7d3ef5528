package main

import (
	"github.com/spf13/cobra"

	"github.com/purview-dev/purview/internal/config"
	"github.com/purview-dev/purview/internal/demo"
	"github.com/purview-dev/purview/internal/tui"
)

func demoCmd() *cobra.Command {
	var (
		configPath string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Watch the demo telemetry store in a terminal dashboard",
		Long: `Run the terminal dashboard against a local telemetry store.

Each panel observes its own selection of the store; a traffic tick only
re-renders the panels whose selected values changed.

Examples:
  purview demo
  purview demo --seed=42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			interval, err := cfg.Sim.TickInterval()
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = cfg.Sim.Seed
			}

			return tui.Run(tui.Options{
				Store:    demo.NewStore(),
				Seed:     seed,
				Interval: interval,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to purview.toml")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Traffic generator seed (0 seeds from the clock)")

	return cmd
}
