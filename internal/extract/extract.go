// Package extract is the pipeline turning a backup file into an import report.
// It reads the input, recovers a document with the probe cascade, harvests it and
// assembles the report.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/ubuntu/decorate"
	"github.com/unifi-tf/unifi-import-ids/internal/fileutils"
	"github.com/unifi-tf/unifi-import-ids/internal/harvest"
	"github.com/unifi-tf/unifi-import-ids/internal/probe"
	"github.com/unifi-tf/unifi-import-ids/internal/report"
)

var (
	// ErrNoCandidates is returned when no strategy could recover a document from a backup.
	ErrNoCandidates = errors.New("could not extract JSON from backup file")

	// ErrMissingInput is returned when there is no input file to read.
	ErrMissingInput = errors.New("no input file")
)

// ShapeError is returned when a JSON document is neither a mapping nor a sequence of mappings.
type ShapeError struct {
	Shape string
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("unexpected data structure: %s", e.Shape)
}

// Report titles and source kinds.
const (
	BackupTitle      = "Terraform Import IDs Extracted from UniFi Backup"
	JSONTitle        = "Terraform Import IDs Extracted from UniFi Backup JSON"
	BackupSourceKind = "Backup file"
	JSONSourceKind   = "JSON file"
)

type timeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

// Extractor builds import reports from backup files.
type Extractor struct {
	prober      *probe.Prober
	table       harvest.Table
	harvestOpts []harvest.Options

	readFile     func(string) ([]byte, error)
	timeProvider timeProvider
}

type options struct {
	table      harvest.Table
	lenientIDs bool
	probeOpts  []probe.Options

	// Private members exported for tests.
	readFile     func(string) ([]byte, error)
	timeProvider timeProvider
}

// Options represents an optional function to override Extractor default values.
type Options func(*options)

// WithTable sets the alias table used to locate collections.
func WithTable(t harvest.Table) Options {
	return func(o *options) {
		o.table = t
	}
}

// WithLenientIDs accepts any non-empty identifier.
func WithLenientIDs(lenient bool) Options {
	return func(o *options) {
		o.lenientIDs = lenient
	}
}

// WithProbeOptions sets the options of the probe cascade.
func WithProbeOptions(opts ...probe.Options) Options {
	return func(o *options) {
		o.probeOpts = append(o.probeOpts, opts...)
	}
}

// New returns a new Extractor.
func New(args ...Options) Extractor {
	opts := options{
		table:        harvest.DefaultTable(),
		readFile:     os.ReadFile,
		timeProvider: realTimeProvider{},
	}
	for _, opt := range args {
		opt(&opts)
	}

	var hOpts []harvest.Options
	if opts.lenientIDs {
		hOpts = append(hOpts, harvest.WithLenientIDs())
	}

	return Extractor{
		prober:       probe.New(opts.probeOpts...),
		table:        opts.table,
		harvestOpts:  hOpts,
		readFile:     opts.readFile,
		timeProvider: opts.timeProvider,
	}
}

// FromBackup recovers a document from the backup file at path with the first
// successful strategy and returns its report.
func (e Extractor) FromBackup(path string) (r report.Report, err error) {
	defer decorate.OnError(&err, "could not extract identifiers from %s", path)

	blob, err := e.read(path)
	if err != nil {
		return report.Report{}, err
	}

	c, ok := e.prober.First(blob)
	if !ok {
		return report.Report{}, ErrNoCandidates
	}
	slog.Info("Recovered document from backup", "method", c.Label, "shape", harvest.Shape(c.Document))

	return report.Report{
		Title:      BackupTitle,
		SourceKind: BackupSourceKind,
		Source:     path,
		Method:     c.Label,
		Generated:  e.timeProvider.Now(),
		Result:     harvest.Harvest(c.Document, e.table, e.harvestOpts...),
	}, nil
}

// FromJSON parses the JSON file at path and returns its report.
//
// A ShapeError is returned if the document is neither a mapping nor a sequence of mappings.
func (e Extractor) FromJSON(path string) (r report.Report, err error) {
	defer decorate.OnError(&err, "could not extract identifiers from %s", path)

	blob, err := e.read(path)
	if err != nil {
		return report.Report{}, err
	}

	var doc any
	if err := fileutils.ParseJSON(bytes.NewReader(blob), &doc); err != nil {
		return report.Report{}, err
	}
	if !harvest.Harvestable(doc) {
		return report.Report{}, ShapeError{Shape: harvest.Shape(doc)}
	}
	slog.Info("Loaded JSON document", "shape", harvest.Shape(doc))

	return report.Report{
		Title:      JSONTitle,
		SourceKind: JSONSourceKind,
		Source:     path,
		Method:     fmt.Sprintf("%s: %s", JSONSourceKind, path),
		Generated:  e.timeProvider.Now(),
		Result:     harvest.Harvest(doc, e.table, e.harvestOpts...),
	}, nil
}

// Finding is a candidate document of a backup with a summary of what it holds.
type Finding struct {
	Strategy string
	Label    string
	Shape    string
	Records  int
}

// Probe runs every strategy against the backup file at path and summarizes, in
// priority order, up to limit candidate documents. A limit of 0 or less means no limit.
func (e Extractor) Probe(path string, limit int) (findings []Finding, err error) {
	defer decorate.OnError(&err, "could not probe %s", path)

	blob, err := e.read(path)
	if err != nil {
		return nil, err
	}

	for c := range e.prober.Candidates(blob) {
		if limit > 0 && len(findings) >= limit {
			slog.Info("Stopped probing, candidate limit reached", "limit", limit)
			break
		}
		findings = append(findings, Finding{
			Strategy: c.Strategy,
			Label:    c.Label,
			Shape:    harvest.Shape(c.Document),
			Records:  harvest.Harvest(c.Document, e.table, e.harvestOpts...).Count(),
		})
	}

	if len(findings) == 0 {
		return nil, ErrNoCandidates
	}
	return findings, nil
}

func (e Extractor) read(path string) ([]byte, error) {
	blob, err := e.readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", ErrMissingInput, path)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("Read input file", "path", path, "size", len(blob))
	return blob, nil
}
