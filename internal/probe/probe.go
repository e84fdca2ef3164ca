// Package probe recovers JSON documents from a backup blob of unknown format.
//
// A Prober runs a fixed cascade of strategies against the blob. Each strategy either
// yields candidate documents or nothing: decoding failures never escape a strategy.
// Callers pick a selection policy on top of the cascade, either the first candidate
// or all of them.
package probe

import (
	"iter"
	"log/slog"
	"slices"
)

const (
	// DefaultWindow is the number of bytes decoded at each offset by the embedded fragment scan.
	DefaultWindow = 10 * 1024

	// DefaultMaxDecompressedSize caps the size of a decompressed stream or archive member.
	DefaultMaxDecompressedSize = 512 * 1024 * 1024
)

// Candidate is a document recovered by a strategy.
type Candidate struct {
	// Strategy is the name of the strategy which produced the candidate.
	Strategy string
	// Label describes how the document was found, for instance the offset or the archive member.
	Label string
	// Document is the decoded JSON value.
	Document any
}

// Strategy is a single way of recovering documents from a blob.
type Strategy interface {
	// Name is a short stable identifier of the strategy.
	Name() string
	// Attempt yields every document the strategy can recover from blob, in order.
	Attempt(blob []byte) iter.Seq[Candidate]
}

// TextDecoder turns arbitrary bytes into text, without ever failing.
type TextDecoder func([]byte) string

// Prober runs recovery strategies in priority order.
type Prober struct {
	strategies []Strategy
}

type options struct {
	window              int
	maxDecompressedSize int64
	decode              TextDecoder
}

// Options represents an optional function to override Prober default values.
type Options func(*options)

// WithWindow sets the window size of the embedded fragment scan.
func WithWindow(n int) Options {
	return func(o *options) {
		o.window = n
	}
}

// WithMaxDecompressedSize sets the maximum size of a decompressed stream.
func WithMaxDecompressedSize(n int64) Options {
	return func(o *options) {
		o.maxDecompressedSize = n
	}
}

// WithTextDecoder sets the decoder used by the strategies working on text.
func WithTextDecoder(d TextDecoder) Options {
	return func(o *options) {
		o.decode = d
	}
}

// New returns a Prober running, in this order: plain JSON, compressed JSON, embedded
// fragment scan, archive scan and pattern extraction.
func New(args ...Options) *Prober {
	opts := options{
		window:              DefaultWindow,
		maxDecompressedSize: DefaultMaxDecompressedSize,
		decode:              DecodeText,
	}
	for _, opt := range args {
		opt(&opts)
	}
	if opts.window <= 0 {
		opts.window = DefaultWindow
	}
	if opts.maxDecompressedSize <= 0 {
		opts.maxDecompressedSize = DefaultMaxDecompressedSize
	}

	return &Prober{
		strategies: []Strategy{
			plainJSON{},
			newCompressedJSON(opts.maxDecompressedSize),
			fragmentScan{window: opts.window, decode: opts.decode},
			archiveScan{limit: opts.maxDecompressedSize},
			patternExtraction{decode: opts.decode},
		},
	}
}

// Strategies returns the strategies of p in priority order.
func (p Prober) Strategies() []Strategy {
	return slices.Clone(p.strategies)
}

// Candidates yields the candidates of every strategy, in priority order.
//
// Strategies run lazily: stopping the iteration stops the current strategy and skips the next ones.
func (p Prober) Candidates(blob []byte) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, s := range p.strategies {
			n := 0
			for c := range s.Attempt(blob) {
				n++
				if !yield(c) {
					return
				}
			}
			slog.Debug("Strategy attempted", "strategy", s.Name(), "candidates", n)
		}
	}
}

// All returns the candidates of every strategy, in priority order.
func (p Prober) All(blob []byte) []Candidate {
	return slices.Collect(p.Candidates(blob))
}

// First returns the first candidate of the first strategy which recovers anything.
func (p Prober) First(blob []byte) (Candidate, bool) {
	for c := range p.Candidates(blob) {
		return c, true
	}
	return Candidate{}, false
}
