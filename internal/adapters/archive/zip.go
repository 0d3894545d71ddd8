// Package archive packages module releases into zip archives.
package archive

import (
	"io"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
	"go.trai.ch/zerr"
)

// ZipArchiver implements ports.Archiver with deflate-compressed zip archives.
type ZipArchiver struct {
	level int
	now   func() time.Time
}

var _ ports.Archiver = (*ZipArchiver)(nil)

// NewZipArchiver creates an archiver compressing at the given flate level
// (-2 for Huffman only, -1 for the library default, 0 to 9).
func NewZipArchiver(level int) *ZipArchiver {
	return &ZipArchiver{level: level, now: time.Now}
}

// Build writes a zip archive with the entries "{name}.stack" and "{name}.stackm".
func (a *ZipArchiver) Build(w io.Writer, name string, release domain.Release) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, a.level)
	})

	modified := a.now()
	entries := []struct {
		name string
		data []byte
	}{
		{domain.StackEntryName(name), release.Stack()},
		{domain.StackmEntryName(name), release.Stackm()},
	}

	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create archive entry"), "entry", e.name)
		}
		if _, err := fw.Write(e.data); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write archive entry"), "entry", e.name)
		}
	}

	if err := zw.Close(); err != nil {
		return zerr.Wrap(err, "failed to finalize archive")
	}
	return nil
}
