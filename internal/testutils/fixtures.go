package testutils

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// Member is a file stored in a test archive.
type Member struct {
	Name string
	Data []byte
}

// ObjectID returns a random 24 hex digits identifier.
func ObjectID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// MarshalJSON returns v encoded as JSON.
func MarshalJSON(t *testing.T, v any) []byte {
	t.Helper()

	d, err := json.Marshal(v)
	require.NoError(t, err, "Setup: could not marshal JSON")
	return d
}

// Gzip returns data compressed as a single gzip stream.
func Gzip(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err, "Setup: could not write gzip stream")
	require.NoError(t, w.Close(), "Setup: could not close gzip stream")
	return buf.Bytes()
}

// Zstd returns data compressed as a single zstd frame.
func Zstd(t *testing.T, data []byte) []byte {
	t.Helper()

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err, "Setup: could not create zstd encoder")
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

// XZ returns data compressed as a single xz stream.
func XZ(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err, "Setup: could not create xz writer")
	_, err = w.Write(data)
	require.NoError(t, err, "Setup: could not write xz stream")
	require.NoError(t, w.Close(), "Setup: could not close xz stream")
	return buf.Bytes()
}

// TarGz returns a gzip compressed tar archive holding members, in order.
func TarGz(t *testing.T, members ...Member) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, m := range members {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: m.Name, Mode: 0600, Size: int64(len(m.Data)), Typeflag: tar.TypeReg}),
			"Setup: could not write tar header of %s", m.Name)
		_, err := tw.Write(m.Data)
		require.NoError(t, err, "Setup: could not write tar member %s", m.Name)
	}
	require.NoError(t, tw.Close(), "Setup: could not close tar archive")
	return Gzip(t, buf.Bytes())
}

// Zip returns a zip archive holding members, in order.
func Zip(t *testing.T, members ...Member) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.Name)
		require.NoError(t, err, "Setup: could not create zip member %s", m.Name)
		_, err = w.Write(m.Data)
		require.NoError(t, err, "Setup: could not write zip member %s", m.Name)
	}
	require.NoError(t, zw.Close(), "Setup: could not close zip archive")
	return buf.Bytes()
}

// BinaryPrefix is the opaque header put in front of embedded documents.
// It contains invalid UTF-8 and no JSON opening character.
var BinaryPrefix = []byte{'U', 'B', 'N', 'T', 0x00, 0x01, 0xff, 0xfe, 0x80, 0x7f, 0xc3}

// Embed returns data surrounded by opaque binary bytes. data starts at offset len(BinaryPrefix).
func Embed(data []byte) []byte {
	var buf bytes.Buffer
	buf.Write(BinaryPrefix)
	buf.Write(data)
	buf.Write([]byte{0x00, 0xff, 0xfe, 0x90})
	return buf.Bytes()
}
