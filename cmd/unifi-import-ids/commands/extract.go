package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/unifi-tf/unifi-import-ids/internal/constants"
	"github.com/unifi-tf/unifi-import-ids/internal/extract"
	"github.com/unifi-tf/unifi-import-ids/internal/fileutils"
	"github.com/unifi-tf/unifi-import-ids/internal/report"
)

// source describes one input variant of the extraction.
type source struct {
	// kind names the input in console messages.
	kind string
	// sourceKind names the input at the start of a sentence.
	sourceKind string
	// search returns the patterns looked up when no input is given.
	search func() []string
	// extract builds the report of the input at path.
	extract func(e extract.Extractor, path string) (report.Report, error)
}

func (a *App) installBackup() error {
	src := source{
		kind:       "backup file",
		sourceKind: extract.BackupSourceKind,
		search:     func() []string { return a.config.BackupSearch },
		extract: func(e extract.Extractor, path string) (report.Report, error) {
			return e.FromBackup(path)
		},
	}

	cmd := &cobra.Command{
		Use:   "backup [BACKUP-FILE [OUTPUT-FILE]]",
		Short: "Extract identifiers from a UniFi backup file",
		Long: `Extract identifiers from a UniFi backup file (.unifi).

The backup format is detected by trying, in order: plain JSON, compressed JSON,
JSON embedded in binary data, JSON members of an archive and finally a raw scan
for identifier fields. The first method recovering a document is used.

Without BACKUP-FILE, the backup-search patterns are looked up in order.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.extractRun(src, args)
		},
	}
	a.cmd.AddCommand(cmd)
	return nil
}

func (a *App) installJSON() error {
	src := source{
		kind:       "JSON file",
		sourceKind: extract.JSONSourceKind,
		search:     func() []string { return a.config.JSONSearch },
		extract: func(e extract.Extractor, path string) (report.Report, error) {
			return e.FromJSON(path)
		},
	}

	cmd := &cobra.Command{
		Use:   "json [JSON-FILE [OUTPUT-FILE]]",
		Short: "Extract identifiers from the JSON database of a UniFi backup",
		Long: `Extract identifiers from the JSON database exported from a UniFi backup.

Without JSON-FILE, the json-search patterns are looked up in order.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.extractRun(src, args)
		},
	}
	a.cmd.AddCommand(cmd)
	return nil
}

// extractRun runs the extraction of src. args are the optional input and output paths.
func (a *App) extractRun(src source, args []string) error {
	var input string
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 {
		a.config.Output = args[1]
	}

	format, err := report.ParseFormat(a.config.Format)
	if err != nil {
		return a.usageError(err)
	}

	con := a.console()

	input, err = extract.ResolveInput(input, src.search())
	if err != nil {
		con.failure("No %s specified and none found in %v", src.kind, src.search())
		return a.usageError(err)
	}

	e, err := a.newExtractor()
	if err != nil {
		return err
	}

	con.step("📦", "Parsing %s: %s", src.kind, input)
	con.blank()

	r, err := src.extract(e, input)
	if err != nil {
		return a.extractError(con, src, input, err)
	}

	con.step("", "Using method: %s", r.Method)
	con.blank()

	if err := a.writeReport(r, format); err != nil {
		return err
	}

	if a.config.Output != constants.StdoutOutput {
		con.success("Extraction complete! %d IDs saved to: %s", r.Result.Count(), a.config.Output)
		con.blank()
	}
	con.step("📋", "Next steps:")
	con.hint("1. Review the extracted IDs in the output file")
	con.hint("2. Match resource names with your Terraform configuration")
	con.hint("3. Use the IDs to import: terraform import <resource_type>.<name> <id>")
	return nil
}

// extractError explains err on the console and returns it, marked as a usage error when the input is missing.
func (a *App) extractError(con console, src source, input string, err error) error {
	var shapeErr extract.ShapeError
	switch {
	case errors.Is(err, extract.ErrMissingInput):
		con.failure("%s not found: %s", src.sourceKind, input)
		return a.usageError(err)
	case errors.Is(err, extract.ErrNoCandidates):
		con.failure("Could not extract JSON from backup file")
		con.hint("The backup file may be encrypted or in an unsupported format.")
		con.blank()
		con.hint("Alternative: Use the UniFi web UI or API to get resource IDs")
	case errors.As(err, &shapeErr):
		con.failure("Unexpected JSON structure")
		con.hint("Found %s", shapeErr.Shape)
	}
	return err
}

// writeReport renders r and writes it to the configured output.
func (a *App) writeReport(r report.Report, format report.Format) error {
	if a.config.Output == constants.StdoutOutput {
		return report.Write(a.stdout, r, format, a.config.Namespace)
	}

	data, err := report.Render(r, format, a.config.Namespace)
	if err != nil {
		return err
	}
	if err := fileutils.AtomicWrite(a.config.Output, data); err != nil {
		return fmt.Errorf("could not write report: %v", err)
	}
	slog.Info("Report written", "path", a.config.Output, "format", format, "records", r.Result.Count())
	return nil
}

// console returns the console for progress messages. They go to stderr when the report is printed.
func (a *App) console() console {
	if a.config.Output == constants.StdoutOutput {
		return newConsole(a.stderr)
	}
	return newConsole(a.stdout)
}
