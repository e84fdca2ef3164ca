// Package report renders harvested records into an import report.
package report

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/unifi-tf/unifi-import-ids/internal/harvest"
)

// TimeLayout is the layout of the generation time in the report header.
const TimeLayout = "2006-01-02 15:04:05.000000"

// UnclassifiedSection is the section name of records whose resource type is unknown.
const UnclassifiedSection = "unclassified"

// Format is an output format of the report.
type Format string

// Supported report formats.
const (
	Text      Format = "text"
	Terraform Format = "terraform"
	JSON      Format = "json"
	YAML      Format = "yaml"
	TOML      Format = "toml"
	INI       Format = "ini"
)

// Formats lists every supported format.
var Formats = []Format{Text, Terraform, JSON, YAML, TOML, INI}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unknown report format %q, expected one of %v", s, Formats)
	}
	return f, nil
}

// Report is the outcome of an extraction, ready to be rendered.
type Report struct {
	// Title is the first header line.
	Title string
	// SourceKind describes Source, for instance "Backup file".
	SourceKind string
	// Source is the path of the input.
	Source string
	// Method is the label of the extraction method which produced Result.
	Method string
	// Generated is the generation time.
	Generated time.Time
	// Result holds the harvested records.
	Result harvest.Result
}

// Slug lowercases name and replaces spaces, dashes and dots with underscores.
// Other characters are kept as is.
func Slug(name string) string {
	return strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(strings.ToLower(name))
}

// Address returns the resource address of a record named name, of type t.
func Address(namespace string, t harvest.ResourceType, name string) string {
	return fmt.Sprintf("%s_%s.%s", namespace, t, Slug(name))
}

// Render returns the report in format f. namespace prefixes resource types in addresses.
func Render(r Report, f Format, namespace string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, r, f, namespace); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the report in format f to w. namespace prefixes resource types in addresses.
func Write(w io.Writer, r Report, f Format, namespace string) error {
	switch f {
	case Text:
		return writeText(w, r, namespace)
	case Terraform:
		return writeTerraform(w, r, namespace)
	case JSON:
		return writeJSON(w, r, namespace)
	case YAML:
		return writeYAML(w, r, namespace)
	case TOML:
		return writeTOML(w, r, namespace)
	case INI:
		return writeINI(w, r, namespace)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// comment makes s safe to be written on a single comment line.
func comment(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// writeHeader writes the commented header lines shared by the line based formats.
func writeHeader(w io.Writer, r Report) error {
	lines := []string{r.Title, fmt.Sprintf("%s: %s", r.SourceKind, r.Source)}
	if r.Method != "" {
		lines = append(lines, "Extraction method: "+r.Method)
	}
	lines = append(lines, "Generated: "+r.Generated.Format(TimeLayout))

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "# %s\n", comment(l)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeText(w io.Writer, r Report, namespace string) error {
	if err := writeHeader(w, r); err != nil {
		return err
	}

	var b strings.Builder
	for _, s := range r.Result.Sections {
		fmt.Fprintf(&b, "## %s\n", s.Type)
		for _, rec := range s.Records {
			fmt.Fprintf(&b, "# %s\n%s = %q\n", comment(rec.Name), Address(namespace, s.Type, rec.Name), rec.ID)
		}
		if s.Empty() {
			b.WriteString("# No resources found\n")
		}
		b.WriteString("\n")
	}

	if len(r.Result.Unclassified) > 0 {
		fmt.Fprintf(&b, "## %s\n", UnclassifiedSection)
		for _, rec := range r.Result.Unclassified {
			fmt.Fprintf(&b, "# %s\n%s = %q\n", comment(rec.Name), Slug(rec.Name), rec.ID)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTerraform(w io.Writer, r Report, namespace string) error {
	if err := writeHeader(w, r); err != nil {
		return err
	}

	var b strings.Builder
	for _, s := range r.Result.Sections {
		if s.Empty() {
			fmt.Fprintf(&b, "# %s: No resources found\n\n", s.Type)
			continue
		}
		for _, rec := range s.Records {
			fmt.Fprintf(&b, "# %s: %s\nimport {\n  to = %s\n  id = %q\n}\n\n",
				s.Type, comment(rec.Name), Address(namespace, s.Type, rec.Name), rec.ID)
		}
	}

	// The resource type of those records is unknown, they can't be imported as is.
	for _, rec := range r.Result.Unclassified {
		fmt.Fprintf(&b, "# %s: %s = %q\n", UnclassifiedSection, comment(rec.Name), rec.ID)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
