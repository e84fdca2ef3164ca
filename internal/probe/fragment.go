package probe

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/unifi-tf/unifi-import-ids/internal/scanner"
)

// jsonSpace is the whitespace skipped before a fragment opening character.
const jsonSpace = " \t\n\r\f\v"

// fragmentScan looks for JSON fragments embedded at any offset of the blob.
//
// At each offset, a window of the blob is decoded as text. If it starts, after
// whitespace, with '{' or '[', the boundary scanner finds where the structure
// closes and the fragment is parsed. Structures longer than the window are missed.
type fragmentScan struct {
	window int
	decode TextDecoder
}

func (fragmentScan) Name() string { return "fragment" }

func (s fragmentScan) Attempt(blob []byte) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for i := range blob {
			// Only whitespace or an opening character can start a fragment once decoded.
			if !strings.ContainsRune(jsonSpace+"{[", rune(blob[i])) {
				continue
			}

			doc, ok := s.fragmentAt(blob[i:min(i+s.window, len(blob))])
			if !ok {
				continue
			}

			if !yield(Candidate{Strategy: s.Name(), Label: fmt.Sprintf("Binary JSON (offset %d)", i), Document: doc}) {
				return
			}
		}
	}
}

// fragmentAt returns the document starting at the beginning of window, if any.
func (s fragmentScan) fragmentAt(window []byte) (any, bool) {
	text := s.decode(window)
	trimmed := strings.TrimLeft(text, jsonSpace)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, false
	}

	end, ok := scanner.Boundary(text)
	if !ok {
		return nil, false
	}

	fragment := text[:end]
	if !gjson.Valid(fragment) {
		return nil, false
	}

	var doc any
	if err := json.Unmarshal([]byte(fragment), &doc); err != nil {
		return nil, false
	}
	return doc, true
}
