package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/unifi-tf/unifi-import-ids/internal/extract"
	"github.com/unifi-tf/unifi-import-ids/internal/report"
	"github.com/unifi-tf/unifi-import-ids/internal/watch"
)

// DefaultWatchPattern is the name pattern of the backup files picked by the watch command.
const DefaultWatchPattern = "*.unifi"

func (a *App) installWatch() error {
	cmd := &cobra.Command{
		Use:   "watch [DIRECTORY]",
		Short: "Regenerate the report each time a backup file is written to a directory",
		Long: `Watch DIRECTORY, "backup" by default, and extract identifiers from every backup
file created or written to it, overwriting the report each time.

Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "backup"
			if len(args) > 0 {
				dir = args[0]
			}
			return a.watchRun(cmd.Context(), dir)
		},
	}

	cmd.Flags().StringVar(&a.config.Pattern, "pattern", DefaultWatchPattern, "name pattern of the backup files")
	if err := a.viper.BindPFlag("pattern", cmd.Flags().Lookup("pattern")); err != nil {
		return err
	}

	a.cmd.AddCommand(cmd)
	return nil
}

func (a *App) watchRun(ctx context.Context, dir string) error {
	format, err := report.ParseFormat(a.config.Format)
	if err != nil {
		return a.usageError(err)
	}

	e, err := a.newExtractor()
	if err != nil {
		return err
	}

	w, err := watch.New(dir, a.config.Pattern)
	if err != nil {
		return a.usageError(err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, errs, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	close(a.ready)

	con := a.console()
	con.step("👀", "Watching %s for %s files", dir, a.config.Pattern)

	for {
		select {
		case path, ok := <-files:
			if !ok {
				return nil
			}
			r, err := e.FromBackup(path)
			if err != nil {
				// The file may still be being written, the next write event retries.
				slog.Warn("Could not extract identifiers", "file", path, "error", err)
				if errors.Is(err, extract.ErrNoCandidates) {
					con.failure("Could not extract JSON from %s", path)
				}
				continue
			}
			if err := a.writeReport(r, format); err != nil {
				return err
			}
			con.success("%s: %d IDs saved to %s (%s)", path, r.Result.Count(), a.config.Output, r.Method)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return fmt.Errorf("stopped watching %s: %v", dir, err)
		}
	}
}
