// Package constants is responsible for defining the constants used in the application.
package constants

import (
	"log/slog"
	"path/filepath"
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "unifi-import-ids"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// DefaultOutput is the default path of the generated report.
	DefaultOutput = "import-ids.txt"

	// StdoutOutput is the output path meaning the report is printed instead of written to a file.
	StdoutOutput = "-"

	// DefaultNamespace prefixes every resource type in the report addresses.
	DefaultNamespace = "unifi"

	// DefaultFormat is the default report format.
	DefaultFormat = "text"

	// DefaultMaxDecompressedSize is the default cap of a decompressed stream.
	DefaultMaxDecompressedSize = "512MiB"

	// DefaultMaxCandidates is the default number of candidates listed by the probe command.
	DefaultMaxCandidates = 50
)

// Version is the version of the executable, overridden at build time.
var Version = "Dev"

// DefaultBackupSearch lists the glob patterns looked up, in order, when no backup file is given.
var DefaultBackupSearch = []string{
	filepath.Join("backup", "*.unifi"),
	filepath.Join("..", "backup", "*.unifi"),
	"*.unifi",
}

// DefaultJSONSearch lists the paths looked up, in order, when no JSON file is given.
var DefaultJSONSearch = []string{
	filepath.Join("tmp-backup-extract", "db.json"),
	filepath.Join("backup", "db.json"),
	filepath.Join("..", "backup", "db.json"),
	"db.json",
}
