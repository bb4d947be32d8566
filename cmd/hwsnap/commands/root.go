// Package commands contains the commands of the hwsnap command line tool.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/hwsnap/hwsnap/internal/cli"
	"github.com/hwsnap/hwsnap/internal/collector"
	"github.com/hwsnap/hwsnap/internal/collector/sysinfo"
	"github.com/hwsnap/hwsnap/internal/collector/sysinfo/storage"
	"github.com/hwsnap/hwsnap/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Collector is the collector component surface the commands drive.
type Collector interface {
	Compile() (collector.Snapshot, error)
	Write(collector.Snapshot) error
}

type newCollector func(cachePath string, dryRun bool, args ...collector.Options) (Collector, error)
type newStorage func() sysinfo.CollectorT[storage.Info]

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig

	collectConfig collectConfig

	newCollector newCollector
	newStorage   newStorage
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int
	CacheDir  string
}

type options struct {
	newCollector newCollector
	newStorage   newStorage
}

// Options represents an optional function to override App default values.
type Options func(*options)

// New creates a new App instance with default values.
func New(args ...Options) (*App, error) {
	opts := options{
		newCollector: func(cachePath string, dryRun bool, cArgs ...collector.Options) (Collector, error) {
			return collector.New(cachePath, dryRun, cArgs...)
		},
		newStorage: func() sysinfo.CollectorT[storage.Info] {
			return storage.New()
		},
	}
	for _, opt := range args {
		opt(&opts)
	}

	a := App{
		newCollector: opts.newCollector,
		newStorage:   opts.newStorage,
	}
	a.cmd = &cobra.Command{
		Use:           constants.CmdName,
		Short:         "Inventory local disks, partitions and filesystems",
		Long:          "hwsnap collects disk, partition and filesystem information from the platform's storage enumeration tools and compiles it into point-in-time snapshots.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetVerbosity(a.config.Verbosity) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to decode configuration into struct: %w", err)
			}
			slog.Debug("got app config", "config", a.config)

			cli.SetVerbosity(a.config.Verbosity)
			return nil
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	installCollectCmd(&a)
	installDisksCmd(&a)
	a.installVersion()

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	cmd.PersistentFlags().StringVar(&app.config.CacheDir, "cache-dir", constants.GetDefaultCachePath(), "directory to store snapshots in")

	if err := cmd.MarkPersistentFlagDirname("cache-dir"); err != nil {
		// This should never happen.
		panic(fmt.Sprintf("failed to mark cache-dir flag as dirname: %v", err))
	}
}

// Run executes the command and associated process, returning an error if any.
func (a App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}
