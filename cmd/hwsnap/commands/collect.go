package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hwsnap/hwsnap/internal/collector"
	"github.com/hwsnap/hwsnap/internal/constants"
	"github.com/spf13/cobra"
)

type collectConfig struct {
	dryRun       bool
	maxSnapshots int
}

var defaultCollectConfig = collectConfig{
	dryRun:       false,
	maxSnapshots: constants.DefaultMaxSnapshots,
}

func installCollectCmd(app *App) {
	app.collectConfig = defaultCollectConfig

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect storage information into a snapshot",
		Long: `Collect disk, partition and filesystem information and compile it into a snapshot.
		The snapshot is written to the cache directory unless --dry-run is given, in which case it is printed to stdout instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Running collect command")

			c, err := app.newCollector(app.config.CacheDir, app.collectConfig.dryRun,
				collector.WithMaxSnapshots(app.collectConfig.maxSnapshots))
			if err != nil {
				return err
			}

			snapshot, err := c.Compile()
			if err != nil {
				return err
			}

			if app.collectConfig.dryRun {
				data, err := json.MarshalIndent(snapshot, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal snapshot: %v", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			return c.Write(snapshot)
		},
	}

	collectCmd.Flags().BoolVarP(&app.collectConfig.dryRun, "dry-run", "d", defaultCollectConfig.dryRun, "print the snapshot to stdout instead of writing it to disk")
	collectCmd.Flags().IntVar(&app.collectConfig.maxSnapshots, "max-snapshots", defaultCollectConfig.maxSnapshots, "maximum number of snapshots kept in the cache directory, 0 to disable pruning")

	app.cmd.AddCommand(collectCmd)
}
