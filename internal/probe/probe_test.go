package probe_test

import (
	"bytes"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unifi-tf/unifi-import-ids/internal/probe"
	"github.com/unifi-tf/unifi-import-ids/internal/testutils"
)

const officeID = "aabbccddeeff001122334455"

var officeDB = map[string]any{
	"networkconf": []any{map[string]any{"_id": officeID, "name": "Office Net"}},
}

func TestFirst(t *testing.T) {
	t.Parallel()

	db := testutils.MarshalJSON(t, officeDB)

	tests := map[string]struct {
		blob func(t *testing.T) []byte

		wantStrategy string
		wantLabel    string
		wantDoc      any
		wantNone     bool
	}{
		"Plain JSON": {
			blob:         func(*testing.T) []byte { return db },
			wantStrategy: "plain", wantLabel: "Plain JSON", wantDoc: officeDB,
		},
		"Plain JSON with byte order mark": {
			blob:         func(*testing.T) []byte { return append([]byte{0xEF, 0xBB, 0xBF}, db...) },
			wantStrategy: "plain", wantLabel: "Plain JSON", wantDoc: officeDB,
		},
		"Plain JSON sequence": {
			blob:         func(*testing.T) []byte { return []byte(`[1, 2]`) },
			wantStrategy: "plain", wantLabel: "Plain JSON", wantDoc: []any{1.0, 2.0},
		},
		"Gzip JSON": {
			blob:         func(t *testing.T) []byte { return testutils.Gzip(t, db) },
			wantStrategy: "compressed", wantLabel: "Gzip JSON", wantDoc: officeDB,
		},
		"Zstd JSON": {
			blob:         func(t *testing.T) []byte { return testutils.Zstd(t, db) },
			wantStrategy: "compressed", wantLabel: "Zstd JSON", wantDoc: officeDB,
		},
		"XZ JSON": {
			blob:         func(t *testing.T) []byte { return testutils.XZ(t, db) },
			wantStrategy: "compressed", wantLabel: "XZ JSON", wantDoc: officeDB,
		},
		"JSON embedded in binary": {
			blob:         func(*testing.T) []byte { return testutils.Embed(db) },
			wantStrategy: "fragment", wantLabel: "Binary JSON (offset 11)", wantDoc: officeDB,
		},
		"JSON embedded after whitespace": {
			blob:         func(*testing.T) []byte { return testutils.Embed(append([]byte("\n\t "), db...)) },
			wantStrategy: "fragment", wantLabel: "Binary JSON (offset 11)", wantDoc: officeDB,
		},
		"Truncated JSON falls back to an inner fragment": {
			blob:         func(*testing.T) []byte { return db[:len(db)-1] },
			wantStrategy: "fragment", wantLabel: "Binary JSON (offset 15)", wantDoc: officeDB["networkconf"],
		},
		"Identifiers in unparsable text": {
			blob: func(*testing.T) []byte {
				return []byte(`garbage "_id": "` + officeID + `", "name": "Office Net" "_id":"5f1e2d3c4b5a69788796a5b4" tail`)
			},
			wantStrategy: "pattern", wantLabel: "Regex extraction",
			wantDoc: map[string]any{
				probe.PatternIDsKey:   []any{officeID, "5f1e2d3c4b5a69788796a5b4"},
				probe.PatternNamesKey: []any{"Office Net"},
			},
		},

		// No candidate
		"Empty blob":            {blob: func(*testing.T) []byte { return nil }, wantNone: true},
		"Text without JSON":     {blob: func(*testing.T) []byte { return []byte("hello world") }, wantNone: true},
		"Uppercase identifiers": {blob: func(*testing.T) []byte { return []byte(`"_id": "AABBCCDDEEFF001122334455"`) }, wantNone: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := probe.New().First(tc.blob(t))
			if tc.wantNone {
				require.False(t, ok, "First should not find any candidate, got %v", got)
				return
			}
			require.True(t, ok, "First should find a candidate")

			assert.Equal(t, tc.wantStrategy, got.Strategy, "Unexpected strategy")
			assert.Equal(t, tc.wantLabel, got.Label, "Unexpected label")
			assert.Equal(t, tc.wantDoc, got.Document, "Unexpected document")
		})
	}
}

func TestStrategiesOrder(t *testing.T) {
	t.Parallel()

	var got []string
	for _, s := range probe.New().Strategies() {
		got = append(got, s.Name())
	}
	assert.Equal(t, []string{"plain", "compressed", "fragment", "archive", "pattern"}, got, "Unexpected strategy order")
}

func TestAllFindsEveryFragment(t *testing.T) {
	t.Parallel()

	var blob bytes.Buffer
	blob.Write(testutils.BinaryPrefix)
	blob.WriteString(`{"a":1}`)
	blob.Write([]byte{0x00, 0x01, 'z', 'z'})
	blob.WriteString(`[{"b":2}]`)
	blob.Write([]byte{0xff})

	got := probe.New().All(blob.Bytes())

	require.Len(t, got, 3, "All should return every fragment")
	assert.Equal(t, "Binary JSON (offset 11)", got[0].Label, "Unexpected first label")
	assert.Equal(t, map[string]any{"a": 1.0}, got[0].Document, "Unexpected first document")
	assert.Equal(t, "Binary JSON (offset 22)", got[1].Label, "Unexpected second label")
	assert.Equal(t, []any{map[string]any{"b": 2.0}}, got[1].Document, "Unexpected second document")
	assert.Equal(t, "Binary JSON (offset 23)", got[2].Label, "Unexpected third label")
	assert.Equal(t, map[string]any{"b": 2.0}, got[2].Document, "Unexpected third document")
}

func TestArchiveMembers(t *testing.T) {
	t.Parallel()

	db := testutils.MarshalJSON(t, officeDB)
	members := []testutils.Member{
		{Name: "readme.txt", Data: []byte("not json")},
		{Name: "broken.json", Data: []byte(`{"oops"`)},
		{Name: "backup/db.json", Data: db},
		{Name: "settings.JSON", Data: []byte(`{"site":"default"}`)},
	}

	tests := map[string]struct {
		blob func(t *testing.T) []byte

		wantLabels []string
	}{
		"Tar.gz archive": {
			blob:       func(t *testing.T) []byte { return testutils.TarGz(t, members...) },
			wantLabels: []string{"Tar.gz JSON (backup/db.json)", "Tar.gz JSON (settings.JSON)"},
		},
		"Zip archive": {
			blob:       func(t *testing.T) []byte { return testutils.Zip(t, members...) },
			wantLabels: []string{"Zip JSON (backup/db.json)", "Zip JSON (settings.JSON)"},
		},
		"Archive without JSON member": {
			blob: func(t *testing.T) []byte { return testutils.Zip(t, members[0]) },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var labels []string
			var docs []any
			for _, c := range probe.New().All(tc.blob(t)) {
				if c.Strategy != "archive" {
					continue
				}
				labels = append(labels, c.Label)
				docs = append(docs, c.Document)
			}

			assert.Equal(t, tc.wantLabels, labels, "Unexpected archive members")
			if len(tc.wantLabels) > 0 {
				assert.Equal(t, officeDB, docs[0], "Unexpected document of the first member")
			}
		})
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	long := []byte(`{"name":"` + strings.Repeat("x", 64) + `"}`)

	tests := map[string]struct {
		blob []byte
		opts []probe.Options

		wantStrategy string
		wantNone     bool
	}{
		"Default window finds large fragment": {blob: testutils.Embed(long), wantStrategy: "fragment"},
		"Fragment larger than window is missed": {
			blob:     testutils.Embed(long),
			opts:     []probe.Options{probe.WithWindow(16)},
			wantNone: true,
		},
		"Invalid window falls back to default": {
			blob:         testutils.Embed(long),
			opts:         []probe.Options{probe.WithWindow(0)},
			wantStrategy: "fragment",
		},
		"Custom text decoder": {
			blob:         []byte("nothing to see"),
			opts:         []probe.Options{probe.WithTextDecoder(func([]byte) string { return `{"decoded":true}` })},
			wantStrategy: "fragment",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := probe.New(tc.opts...).First(tc.blob)
			if tc.wantNone {
				require.False(t, ok, "First should not find any candidate, got %v", got)
				return
			}
			require.True(t, ok, "First should find a candidate")
			assert.Equal(t, tc.wantStrategy, got.Strategy, "Unexpected strategy")
		})
	}
}

func TestMaxDecompressedSize(t *testing.T) {
	t.Parallel()

	blob := testutils.Gzip(t, testutils.MarshalJSON(t, officeDB))

	tests := map[string]struct {
		limit int64

		wantCompressed bool
	}{
		"Stream under the limit":           {limit: 1024, wantCompressed: true},
		"Invalid limit falls back":         {limit: -1, wantCompressed: true},
		"Stream over the limit is ignored": {limit: 16},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var found bool
			for _, c := range probe.New(probe.WithMaxDecompressedSize(tc.limit)).All(blob) {
				if c.Strategy == "compressed" {
					found = true
				}
			}
			assert.Equal(t, tc.wantCompressed, found, "Unexpected compressed candidate presence")
		})
	}
}

// countingStrategy yields n empty candidates and records how many were requested.
type countingStrategy struct {
	name     string
	n        int
	attempts *int
	yielded  *int
}

func (s countingStrategy) Name() string { return s.name }

func (s countingStrategy) Attempt([]byte) iter.Seq[probe.Candidate] {
	return func(yield func(probe.Candidate) bool) {
		*s.attempts++
		for range s.n {
			*s.yielded++
			if !yield(probe.Candidate{Strategy: s.name}) {
				return
			}
		}
	}
}

func TestCandidatesAreLazy(t *testing.T) {
	t.Parallel()

	var firstAttempts, firstYielded, secondAttempts, secondYielded int
	p := probe.NewWithStrategies(
		countingStrategy{name: "empty", attempts: new(int), yielded: new(int)},
		countingStrategy{name: "first", n: 3, attempts: &firstAttempts, yielded: &firstYielded},
		countingStrategy{name: "second", n: 2, attempts: &secondAttempts, yielded: &secondYielded},
	)

	got, ok := p.First(nil)
	require.True(t, ok, "First should find a candidate")
	assert.Equal(t, "first", got.Strategy, "First should return the first strategy yielding a candidate")
	assert.Equal(t, 1, firstYielded, "First should stop the strategy after one candidate")
	assert.Zero(t, secondAttempts, "First should not attempt later strategies")

	all := p.All(nil)
	assert.Len(t, all, 5, "All should collect every candidate")
	assert.Equal(t, 1, secondAttempts, "All should attempt every strategy")
}

func TestDecodeText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   []byte
		want string
	}{
		"Valid text":        {in: []byte(`{"name":"Café"}`), want: `{"name":"Café"}`},
		"Empty":             {in: nil, want: ""},
		"Invalid bytes":     {in: []byte{'{', 0xff, '}'}, want: "{�}"},
		"Truncated rune":    {in: []byte{'a', 0xc3}, want: "a�"},
		"Lengths can shift": {in: []byte{0xfe, 0xfe, '['}, want: "��["},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, probe.DecodeText(tc.in), "Unexpected decoded text")
		})
	}
}
