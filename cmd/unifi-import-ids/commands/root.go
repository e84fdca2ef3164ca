// Package commands is the command line interface of unifi-import-ids.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unifi-tf/unifi-import-ids/internal/cli"
	"github.com/unifi-tf/unifi-import-ids/internal/constants"
	"github.com/unifi-tf/unifi-import-ids/internal/extract"
	"github.com/unifi-tf/unifi-import-ids/internal/fileutils"
	"github.com/unifi-tf/unifi-import-ids/internal/harvest"
	"github.com/unifi-tf/unifi-import-ids/internal/probe"
	"github.com/unifi-tf/unifi-import-ids/internal/report"
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig

	stdout io.Writer
	stderr io.Writer

	ready chan struct{}
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity           int      `mapstructure:"verbosity"`
	Output              string   `mapstructure:"output"`
	Format              string   `mapstructure:"format"`
	Namespace           string   `mapstructure:"namespace"`
	Aliases             string   `mapstructure:"aliases"`
	LenientIDs          bool     `mapstructure:"lenient-ids"`
	Window              int      `mapstructure:"window"`
	MaxDecompressedSize string   `mapstructure:"max-decompressed-size"`
	BackupSearch        []string `mapstructure:"backup-search"`
	JSONSearch          []string `mapstructure:"json-search"`
	MaxCandidates       int      `mapstructure:"max-candidates"`
	Pattern             string   `mapstructure:"pattern"`
}

type options struct {
	stdout io.Writer
	stderr io.Writer
}

// Options represents an optional function to override App default values.
type Options func(*options)

// New creates a new App instance with default values.
func New(args ...Options) (*App, error) {
	opts := options{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range args {
		opt(&opts)
	}

	a := App{
		stdout: opts.stdout,
		stderr: opts.stderr,
		ready:  make(chan struct{}),
	}

	a.cmd = &cobra.Command{
		Use:   constants.CmdName,
		Short: "Extract Terraform import identifiers from UniFi controller backups",
		Long: `Extract the identifiers of UniFi resources from a controller backup, or from the JSON
database exported from it, and write them next to their names in an import report.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetVerbosity(a.config.Verbosity) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, cmd, a.viper); err != nil {
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
	a.cmd.SetOut(a.stdout)
	a.cmd.SetErr(a.stderr)

	installRootFlags(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	for _, install := range []func() error{a.installBackup, a.installJSON, a.installProbe, a.installWatch} {
		if err := install(); err != nil {
			return nil, err
		}
	}
	a.installVersion()

	return &a, nil
}

func installRootFlags(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbosity", "v", "issue INFO (-v), DEBUG (-vv)")

	cmd.PersistentFlags().StringVarP(&app.config.Output, "output", "o", constants.DefaultOutput,
		fmt.Sprintf("path of the generated report, %q prints it", constants.StdoutOutput))
	cmd.PersistentFlags().StringVarP(&app.config.Format, "format", "f", constants.DefaultFormat,
		fmt.Sprintf("report format, one of %v", report.Formats))
	cmd.PersistentFlags().StringVar(&app.config.Namespace, "namespace", constants.DefaultNamespace, "prefix of the resource types in addresses")
	cmd.PersistentFlags().StringVar(&app.config.Aliases, "aliases", "", "TOML file overriding the collection names of resource types")
	cmd.PersistentFlags().BoolVar(&app.config.LenientIDs, "lenient-ids", false, "accept identifiers which are not 24 hex digits object ids")

	cmd.PersistentFlags().IntVar(&app.config.Window, "window", probe.DefaultWindow, "bytes decoded at each offset when looking for embedded JSON")
	cmd.PersistentFlags().StringVar(&app.config.MaxDecompressedSize, "max-decompressed-size", constants.DefaultMaxDecompressedSize,
		"maximum size of a decompressed stream or archive member")

	cmd.PersistentFlags().StringSliceVar(&app.config.BackupSearch, "backup-search", constants.DefaultBackupSearch,
		"patterns looked up, in order, when no backup file is given")
	cmd.PersistentFlags().StringSliceVar(&app.config.JSONSearch, "json-search", constants.DefaultJSONSearch,
		"patterns looked up, in order, when no JSON file is given")

	if err := cmd.MarkPersistentFlagFilename("aliases", "toml"); err != nil {
		// This should never happen.
		panic(fmt.Sprintf("failed to mark aliases flag as filename: %v", err))
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

// usageError marks err as a usage error: the usage is printed and the exit code is 2.
func (a *App) usageError(err error) error {
	a.cmd.SilenceUsage = false
	return err
}

// newExtractor returns an extractor configured from the application configuration.
func (a *App) newExtractor() (extract.Extractor, error) {
	maxSize, err := fileutils.ParseSize(a.config.MaxDecompressedSize)
	if err != nil {
		return extract.Extractor{}, a.usageError(fmt.Errorf("invalid max-decompressed-size: %v", err))
	}
	if a.config.Window <= 0 {
		return extract.Extractor{}, a.usageError(fmt.Errorf("window must be positive, got %d", a.config.Window))
	}

	table := harvest.DefaultTable()
	if a.config.Aliases != "" {
		if table, err = harvest.LoadTable(a.config.Aliases); err != nil {
			return extract.Extractor{}, err
		}
	}

	return extract.New(
		extract.WithTable(table),
		extract.WithLenientIDs(a.config.LenientIDs),
		extract.WithProbeOptions(probe.WithWindow(a.config.Window), probe.WithMaxDecompressedSize(maxSize)),
	), nil
}
