package probe

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/unifi-tf/unifi-import-ids/internal/fileutils"
)

// archiveScan opens the blob as a gzip compressed tar or a zip archive and parses every JSON member.
type archiveScan struct {
	limit int64
}

func (archiveScan) Name() string { return "archive" }

func (s archiveScan) Attempt(blob []byte) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if !s.tarGz(blob, yield) {
			return
		}
		s.zipArchive(blob, yield)
	}
}

// tarGz yields the JSON members of a tar.gz archive. It returns false if the iteration was stopped.
func (s archiveScan) tarGz(blob []byte, yield func(Candidate) bool) bool {
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		slog.Debug("Blob is not a tar.gz archive", "error", err)
		return true
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return true
		}
		if err != nil {
			slog.Debug("Stopped reading tar.gz archive", "error", err)
			return true
		}

		if hdr.Typeflag != tar.TypeReg || !isJSONMember(hdr.Name) {
			continue
		}

		var doc any
		if err := fileutils.ParseJSON(io.LimitReader(tr, s.limit), &doc); err != nil {
			slog.Debug("Skipping tar.gz member", "member", hdr.Name, "error", err)
			continue
		}
		if !yield(Candidate{Strategy: s.Name(), Label: fmt.Sprintf("Tar.gz JSON (%s)", hdr.Name), Document: doc}) {
			return false
		}
	}
}

// zipArchive yields the JSON members of a zip archive. It returns false if the iteration was stopped.
func (s archiveScan) zipArchive(blob []byte, yield func(Candidate) bool) bool {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		slog.Debug("Blob is not a zip archive", "error", err)
		return true
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isJSONMember(f.Name) {
			continue
		}

		doc, err := s.zipMember(f)
		if err != nil {
			slog.Debug("Skipping zip member", "member", f.Name, "error", err)
			continue
		}
		if !yield(Candidate{Strategy: s.Name(), Label: fmt.Sprintf("Zip JSON (%s)", f.Name), Document: doc}) {
			return false
		}
	}
	return true
}

func (s archiveScan) zipMember(f *zip.File) (doc any, err error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if err := fileutils.ParseJSON(io.LimitReader(rc, s.limit), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isJSONMember(name string) bool {
	return strings.EqualFold(path.Ext(name), ".json")
}
