// Package statefile persists the module store as a single local file.
//
// File layout:
//
//	magic   [4]byte  "SHUB"
//	format  uint8    currently 1
//	digest  uint64   big-endian xxhash64 of body
//	body    []byte   zstd-compressed CBOR encoding of domain.Snapshot
package statefile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	formatVersion = 1
	headerSize    = 4 + 1 + 8
	lockSuffix    = ".lock"

	// maxCollectionSize is the largest array or map the CBOR decoder accepts,
	// so every snapshot that encodes also decodes.
	maxCollectionSize = math.MaxInt32
)

var magic = [4]byte{'S', 'H', 'U', 'B'}

// Store implements ports.StateStore on one file that is replaced atomically on every save.
type Store struct {
	path string
	mu   sync.Mutex

	enc  cbor.EncMode
	dec  cbor.DecMode
	zenc *zstd.Encoder
	zdec *zstd.Decoder

	lock   *fileLock
	closed bool
}

var _ ports.StateStore = (*Store)(nil)

// NewStore creates a Store backed by the file at path and locks it against other
// processes until Close. The state file itself is created on first save.
func NewStore(path string) (*Store, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create state directory"), "path", path)
	}

	lock, err := acquireLock(path + lockSuffix)
	if err != nil {
		return nil, err
	}

	s, err := newStore(path, lock)
	if err != nil {
		_ = lock.release()
		return nil, err
	}
	return s, nil
}

func newStore(path string, lock *fileLock) (*Store, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to configure state encoder")
	}
	dec, err := cbor.DecOptions{
		MaxArrayElements: maxCollectionSize,
		MaxMapPairs:      maxCollectionSize,
	}.DecMode()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to configure state decoder")
	}
	zenc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd encoder")
	}
	zdec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = zenc.Close()
		return nil, zerr.Wrap(err, "failed to create zstd decoder")
	}

	return &Store{
		path: path,
		lock: lock,
		enc:  enc,
		dec:  dec,
		zenc: zenc,
		zdec: zdec,
	}, nil
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. A missing or empty file yields an empty snapshot.
func (s *Store) Load() (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &domain.Snapshot{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read state file"), "path", s.path)
	}
	if len(data) == 0 {
		return &domain.Snapshot{}, nil
	}

	snap, err := s.decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", s.path)
	}
	return snap, nil
}

func (s *Store) decode(data []byte) (*domain.Snapshot, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], magic[:]) {
		return nil, zerr.Wrap(domain.ErrCorruptState, "unrecognized state file header")
	}
	if data[4] != formatVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrCorruptState, "unsupported state format"), "format", data[4])
	}

	body := data[headerSize:]
	if binary.BigEndian.Uint64(data[5:headerSize]) != xxhash.Sum64(body) {
		return nil, zerr.Wrap(domain.ErrCorruptState, "state file checksum mismatch")
	}

	raw, err := s.zdec.DecodeAll(body, nil)
	if err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrCorruptState, err), "failed to decompress state")
	}

	var snap domain.Snapshot
	if err := s.dec.Unmarshal(raw, &snap); err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrCorruptState, err), "failed to decode state")
	}
	return &snap, nil
}

func (s *Store) encode(snap *domain.Snapshot) ([]byte, error) {
	raw, err := s.enc.Marshal(snap)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode state")
	}
	body := s.zenc.EncodeAll(raw, nil)

	out := make([]byte, headerSize, headerSize+len(body))
	copy(out, magic[:])
	out[4] = formatVersion
	binary.BigEndian.PutUint64(out[5:headerSize], xxhash.Sum64(body))
	return append(out, body...), nil
}

// Save writes snap to a temporary file next to the target, syncs it and renames it into place.
func (s *Store) Save(snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.encode(snap)
	if err != nil {
		return errors.Join(domain.ErrPersistenceFailed, err)
	}

	if err := s.writeAtomic(data); err != nil {
		return zerr.With(errors.Join(domain.ErrPersistenceFailed, err), "path", s.path)
	}
	return nil
}

func (s *Store) writeAtomic(data []byte) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create state directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary state file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return zerr.Wrap(err, "failed to write state file")
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to set state file permissions")
	}
	if err := tmp.Sync(); err != nil {
		return zerr.Wrap(err, "failed to sync state file")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to close state file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.Wrap(err, "failed to replace state file")
	}

	syncDir(dir)
	return nil
}

// syncDir flushes the directory entry of a rename. Not every platform supports it.
func syncDir(dir string) {
	//nolint:gosec // Directory of a cleaned, trusted path
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// Close releases the compression resources and the state lock. Later calls are no-ops.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.zdec.Close()
	return errors.Join(s.zenc.Close(), s.lock.release())
}
