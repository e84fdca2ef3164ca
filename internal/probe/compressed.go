package probe

import (
	"bytes"
	"io"
	"iter"
	"log/slog"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/unifi-tf/unifi-import-ids/internal/fileutils"
)

// codec opens a single compressed stream.
type codec struct {
	label string
	open  func(io.Reader) (io.ReadCloser, error)
}

// compressedJSON decompresses the blob as a single stream and parses the result.
type compressedJSON struct {
	codecs []codec
	limit  int64
}

func newCompressedJSON(limit int64) compressedJSON {
	return compressedJSON{
		limit: limit,
		codecs: []codec{
			{label: "Gzip JSON", open: func(r io.Reader) (io.ReadCloser, error) {
				return gzip.NewReader(r)
			}},
			{label: "Zstd JSON", open: func(r io.Reader) (io.ReadCloser, error) {
				d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
				if err != nil {
					return nil, err
				}
				return d.IOReadCloser(), nil
			}},
			{label: "XZ JSON", open: func(r io.Reader) (io.ReadCloser, error) {
				d, err := xz.NewReader(r)
				if err != nil {
					return nil, err
				}
				return io.NopCloser(d), nil
			}},
		},
	}
}

func (compressedJSON) Name() string { return "compressed" }

func (s compressedJSON) Attempt(blob []byte) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, c := range s.codecs {
			doc, err := s.decompress(c, blob)
			if err != nil {
				slog.Debug("Blob is not a compressed JSON stream", "codec", c.label, "error", err)
				continue
			}
			// A blob is only ever in one single stream format.
			yield(Candidate{Strategy: s.Name(), Label: c.label, Document: doc})
			return
		}
	}
}

func (s compressedJSON) decompress(c codec, blob []byte) (doc any, err error) {
	r, err := c.open(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := fileutils.ParseJSON(io.LimitReader(r, s.limit), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
