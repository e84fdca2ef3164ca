package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// document is the serialized form of a report.
type document struct {
	Title        string     `json:"title" yaml:"title" toml:"title"`
	Source       string     `json:"source" yaml:"source" toml:"source"`
	Method       string     `json:"method,omitempty" yaml:"method,omitempty" toml:"method,omitempty"`
	Generated    string     `json:"generated" yaml:"generated" toml:"generated"`
	Resources    []section  `json:"resources" yaml:"resources" toml:"resources"`
	Unclassified []idRecord `json:"unclassified,omitempty" yaml:"unclassified,omitempty" toml:"unclassified,omitempty"`
}

type section struct {
	Type    string     `json:"type" yaml:"type" toml:"type"`
	Records []idRecord `json:"records" yaml:"records" toml:"records"`
}

type idRecord struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	ID      string `json:"id" yaml:"id" toml:"id"`
	Address string `json:"address,omitempty" yaml:"address,omitempty" toml:"address,omitempty"`
}

func newDocument(r Report, namespace string) document {
	d := document{
		Title:     r.Title,
		Source:    r.Source,
		Method:    r.Method,
		Generated: r.Generated.Format(TimeLayout),
		Resources: make([]section, 0, len(r.Result.Sections)),
	}

	for _, s := range r.Result.Sections {
		recs := make([]idRecord, 0, len(s.Records))
		for _, rec := range s.Records {
			recs = append(recs, idRecord{Name: rec.Name, ID: rec.ID, Address: Address(namespace, s.Type, rec.Name)})
		}
		d.Resources = append(d.Resources, section{Type: string(s.Type), Records: recs})
	}

	for _, rec := range r.Result.Unclassified {
		d.Unclassified = append(d.Unclassified, idRecord{Name: rec.Name, ID: rec.ID})
	}

	return d
}

func writeJSON(w io.Writer, r Report, namespace string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(r, namespace))
}

func writeYAML(w io.Writer, r Report, namespace string) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(r, namespace)); err != nil {
		return err
	}
	return enc.Close()
}

func writeTOML(w io.Writer, r Report, namespace string) error {
	return toml.NewEncoder(w).Encode(newDocument(r, namespace))
}

// writeINI writes one INI section per resource type, keyed by record slug.
// Records sharing a slug within a section keep the last identifier.
func writeINI(w io.Writer, r Report, namespace string) error {
	d := newDocument(r, namespace)

	cfg := ini.Empty()
	def := cfg.Section(ini.DefaultSection)
	for _, kv := range [][2]string{{"title", d.Title}, {"source", d.Source}, {"method", d.Method}, {"generated", d.Generated}} {
		if kv[1] == "" {
			continue
		}
		if _, err := def.NewKey(kv[0], kv[1]); err != nil {
			return fmt.Errorf("could not add %s to report: %v", kv[0], err)
		}
	}

	add := func(name string, recs []idRecord) error {
		sec, err := cfg.NewSection(name)
		if err != nil {
			return fmt.Errorf("could not add section %s to report: %v", name, err)
		}
		if len(recs) == 0 {
			sec.Comment = "# No resources found"
		}
		for _, rec := range recs {
			k, err := sec.NewKey(Slug(rec.Name), rec.ID)
			if err != nil {
				return fmt.Errorf("could not add %q to section %s: %v", rec.Name, name, err)
			}
			k.Comment = "# " + comment(rec.Name)
		}
		return nil
	}

	for _, s := range d.Resources {
		if err := add(s.Type, s.Records); err != nil {
			return err
		}
	}
	if len(d.Unclassified) > 0 {
		if err := add(UnclassifiedSection, d.Unclassified); err != nil {
			return err
		}
	}

	_, err := cfg.WriteTo(w)
	return err
}
