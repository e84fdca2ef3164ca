package probe

import (
	"bytes"
	"encoding/json"
	"iter"
	"log/slog"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// plainJSON parses the whole blob as a JSON document.
type plainJSON struct{}

func (plainJSON) Name() string { return "plain" }

func (s plainJSON) Attempt(blob []byte) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		var doc any
		if err := json.Unmarshal(bytes.TrimPrefix(blob, utf8BOM), &doc); err != nil {
			slog.Debug("Blob is not plain JSON", "error", err)
			return
		}
		yield(Candidate{Strategy: s.Name(), Label: "Plain JSON", Document: doc})
	}
}
