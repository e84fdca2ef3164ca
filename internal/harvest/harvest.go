// Package harvest extracts (name, identifier) records from a loosely structured backup document.
//
// Collections are located through an alias table, as the same resource type is stored
// under different key names depending on the controller version.
package harvest

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
	"github.com/unifi-tf/unifi-import-ids/internal/probe"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Record is a single recovered resource.
type Record struct {
	Name string
	ID   string
}

// Section holds the records of one resource type.
type Section struct {
	Type    ResourceType
	Records []Record
}

// Empty reports whether no resource of this type was found.
func (s Section) Empty() bool {
	return len(s.Records) == 0
}

// Result is the outcome of harvesting a document.
//
// It contains one Section per resource type of the table, even when empty.
// Unclassified holds records recovered by pattern matching, whose type is unknown.
type Result struct {
	Sections     []Section
	Unclassified []Record
}

// Section returns the section of type t.
func (r Result) Section(t ResourceType) Section {
	for _, s := range r.Sections {
		if s.Type == t {
			return s
		}
	}
	return Section{Type: t}
}

// Count returns the total number of records, unclassified ones included.
func (r Result) Count() int {
	n := len(r.Unclassified)
	for _, s := range r.Sections {
		n += len(s.Records)
	}
	return n
}

type options struct {
	lenientIDs bool
	log        *slog.Logger
}

// Options represents an optional function to override Harvest default values.
type Options func(*options)

// WithLenientIDs accepts any non-empty identifier instead of requiring a 24 hex digits object id.
func WithLenientIDs() Options {
	return func(o *options) {
		o.lenientIDs = true
	}
}

// WithLogger sets the logger used to report skipped items.
func WithLogger(l *slog.Logger) Options {
	return func(o *options) {
		o.log = l
	}
}

// Harvest walks doc and returns the records of every resource type in table.
//
// A mapping document is searched for every alias of every type, and the items of all
// present aliases are unioned. A sequence document has each of its mappings harvested in
// turn. Any other value yields an empty result. doc is never modified.
func Harvest(doc any, table Table, args ...Options) Result {
	opts := options{log: slog.Default()}
	for _, opt := range args {
		opt(&opts)
	}

	res := Result{Sections: make([]Section, len(table))}
	for i, a := range table {
		res.Sections[i].Type = a.Type
	}

	switch d := doc.(type) {
	case map[string]any:
		opts.harvestMapping(d, table, &res)
	case []any:
		for _, elem := range d {
			m, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			opts.harvestMapping(m, table, &res)
		}
	default:
		opts.log.Debug("Document is not a mapping nor a sequence, nothing to harvest", "shape", Shape(doc))
	}

	return res
}

func (o options) harvestMapping(doc map[string]any, table Table, res *Result) {
	for i, a := range table {
		for _, key := range a.Keys {
			v, ok := doc[key]
			if !ok {
				continue
			}
			records := o.collection(key, v)
			o.log.Debug("Harvested collection", "type", a.Type, "key", key, "records", len(records))
			res.Sections[i].Records = append(res.Sections[i].Records, records...)
		}
	}

	if ids, ok := doc[probe.PatternIDsKey]; ok {
		res.Unclassified = append(res.Unclassified, patternRecords(ids, doc[probe.PatternNamesKey])...)
	}
}

// collection returns the records of a collection value. A bare mapping is a one item collection.
func (o options) collection(key string, v any) []Record {
	var items []any
	switch c := v.(type) {
	case []any:
		items = c
	case map[string]any:
		items = []any{c}
	default:
		return nil
	}

	var records []Record
	for i, elem := range items {
		m, ok := elem.(map[string]any)
		if !ok {
			continue
		}

		r, err := o.record(m, i)
		if err != nil {
			o.log.Debug("Skipping item", "key", key, "index", i, "error", err)
			continue
		}
		records = append(records, r)
	}
	return records
}

// item holds the fields of a collection item the harvester cares about.
type item struct {
	Name     string `mapstructure:"name"`
	Hostname string `mapstructure:"hostname"`
	ID       any    `mapstructure:"_id"`
}

func (o options) record(m map[string]any, index int) (Record, error) {
	var it item
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		MatchName:        func(mapKey, fieldName string) bool { return mapKey == fieldName },
		Result:           &it,
	})
	if err != nil {
		return Record{}, err
	}
	// Fields which can't be decoded are left empty, the others are still set.
	if err := dec.Decode(m); err != nil {
		o.log.Debug("Some item fields could not be decoded", "error", err)
	}

	id := objectID(it.ID)
	if id == "" {
		return Record{}, fmt.Errorf("no identifier")
	}
	if !o.lenientIDs && !objectIDPattern.MatchString(id) {
		return Record{}, fmt.Errorf("identifier %q is not an object id", id)
	}

	return Record{Name: displayName(index, it.Name, it.Hostname, id), ID: id}, nil
}

// objectID returns the identifier held by v, either a plain string or an extended JSON {"$oid": "..."}.
func objectID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case map[string]any:
		if oid, ok := id["$oid"].(string); ok {
			return oid
		}
	}
	return ""
}

// displayName returns the first non-empty candidate, or a placeholder built from index.
func displayName(index int, candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return fmt.Sprintf("resource_%d", index)
}

// patternRecords pairs identifiers and names positionally.
func patternRecords(ids, names any) []Record {
	idList := stringList(ids)
	nameList := stringList(names)

	var records []Record
	for i, id := range idList {
		if id == "" {
			continue
		}
		var name string
		if i < len(nameList) {
			name = nameList[i]
		}
		records = append(records, Record{Name: displayName(i, name), ID: id})
	}
	return records
}

// stringList returns v as a list of strings. Non string elements are kept as empty strings to preserve positions.
func stringList(v any) []string {
	switch l := v.(type) {
	case []string:
		return l
	case []any:
		res := make([]string, len(l))
		for i, e := range l {
			if s, ok := e.(string); ok {
				res[i] = s
			}
		}
		return res
	}
	return nil
}
