package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unifi-tf/unifi-import-ids/internal/constants"
	"github.com/unifi-tf/unifi-import-ids/internal/extract"
)

func (a *App) installProbe() error {
	cmd := &cobra.Command{
		Use:   "probe [BACKUP-FILE]",
		Short: "List every document which can be recovered from a backup file",
		Long: `List, in priority order, every document the detection methods recover from a backup
file, with the shape of the document and the number of identifiers found in it.

Nothing is written. Use it to understand which method the backup command picks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) > 0 {
				input = args[0]
			}
			return a.probeRun(input)
		},
	}

	cmd.Flags().IntVar(&a.config.MaxCandidates, "max-candidates", constants.DefaultMaxCandidates, "maximum number of documents to list, 0 for no limit")
	if err := a.viper.BindPFlag("max-candidates", cmd.Flags().Lookup("max-candidates")); err != nil {
		return err
	}

	a.cmd.AddCommand(cmd)
	return nil
}

func (a *App) probeRun(input string) error {
	con := newConsole(a.stdout)

	input, err := extract.ResolveInput(input, a.config.BackupSearch)
	if err != nil {
		con.failure("No backup file specified and none found in %v", a.config.BackupSearch)
		return a.usageError(err)
	}

	e, err := a.newExtractor()
	if err != nil {
		return err
	}

	con.step("📦", "Probing backup file: %s", input)
	con.blank()

	findings, err := e.Probe(input, a.config.MaxCandidates)
	if errors.Is(err, extract.ErrMissingInput) {
		con.failure("%s not found: %s", extract.BackupSourceKind, input)
		return a.usageError(err)
	}
	if errors.Is(err, extract.ErrNoCandidates) {
		con.failure("Could not extract JSON from backup file")
		con.hint("The backup file may be encrypted or in an unsupported format.")
		return err
	}
	if err != nil {
		return err
	}

	con.success("Found %d extraction method(s)", len(findings))
	con.blank()
	for i, f := range findings {
		fmt.Fprintf(a.stdout, "%d. %s [%s]\n   %s, %d IDs\n", i+1, f.Label, f.Strategy, f.Shape, f.Records)
	}
	return nil
}
