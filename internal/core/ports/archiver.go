package ports

import (
	"io"

	"go.trai.ch/stackhub/internal/core/domain"
)

// Archiver packages a release into a single downloadable archive.
//
//go:generate mockgen -source=archiver.go -destination=mocks/mock_archiver.go -package=mocks
type Archiver interface {
	// Build writes an archive holding both blobs of the release to w.
	Build(w io.Writer, name string, release domain.Release) error
}
