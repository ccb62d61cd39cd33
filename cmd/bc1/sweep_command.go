package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var maxAgeSeconds int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Reclaim temp files left behind by interrupted runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			temp, err := ctx.tempManager()
			if err != nil {
				return err
			}

			maxAge := cfg.MaxTempAge()
			if cmd.Flags().Changed("max-age") {
				maxAge = time.Duration(maxAgeSeconds) * time.Second
			}

			removed := temp.SweepOrphans(maxAge)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d temp file(s) older than %s\n", removed, maxAge)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeSeconds, "max-age", 0, "Age threshold in seconds (defaults to temp.max_age_seconds)")

	return cmd
}
