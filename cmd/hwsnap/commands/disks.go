package commands

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/hwsnap/hwsnap/internal/collector/sysinfo/storage"
	"github.com/spf13/cobra"
)

func installDisksCmd(app *App) {
	disksCmd := &cobra.Command{
		Use:   "disks",
		Short: "List local disks and partitions",
		Long:  "List local disks and their partitions in a human readable table, without writing a snapshot.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Running disks command")

			info, err := app.newStorage().Collect()
			if err != nil {
				return err
			}

			renderDisks(cmd.OutOrStdout(), info.Disks)
			return nil
		},
	}

	app.cmd.AddCommand(disksCmd)
}

// renderDisks writes one row per disk, with its partitions indented
// underneath it.
func renderDisks(out io.Writer, disks []storage.DiskStore) {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODEL\tSERIAL\tREADS\tWRITES")
	for _, d := range disks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			d.Name, humanize.IBytes(d.SizeBytes), d.Model, d.Serial, d.ReadsCount, d.WritesCount)
		for _, p := range d.Partitions {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t\t\n",
				p.Name, humanize.IBytes(p.SizeBytes), p.Type, p.MountPoint)
		}
	}
	w.Flush()
}
