package probe

import (
	"iter"
	"regexp"
)

const (
	// PatternIDsKey holds the identifiers found by pattern extraction, in order of appearance.
	PatternIDsKey = "extracted_ids"
	// PatternNamesKey holds the names found by pattern extraction, in order of appearance.
	PatternNamesKey = "extracted_names"
)

var (
	idPattern   = regexp.MustCompile(`"_id"\s*:\s*"([a-f0-9]{24})"`)
	namePattern = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)
)

// patternExtraction matches identifier and name fields in the raw text, without parsing it.
//
// Identifiers and names are collected independently: the i-th name is not guaranteed
// to belong to the i-th identifier.
type patternExtraction struct {
	decode TextDecoder
}

func (patternExtraction) Name() string { return "pattern" }

func (s patternExtraction) Attempt(blob []byte) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		text := s.decode(blob)

		ids := submatches(idPattern, text)
		if len(ids) == 0 {
			return
		}

		yield(Candidate{
			Strategy: s.Name(),
			Label:    "Regex extraction",
			Document: map[string]any{
				PatternIDsKey:   ids,
				PatternNamesKey: submatches(namePattern, text),
			},
		})
	}
}

// submatches returns the first capture group of every match of re in text.
func submatches(re *regexp.Regexp, text string) []any {
	matches := re.FindAllStringSubmatch(text, -1)
	res := make([]any, 0, len(matches))
	for _, m := range matches {
		res = append(res, m[1])
	}
	return res
}
