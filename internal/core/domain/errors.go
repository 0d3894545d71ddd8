package domain

import "go.trai.ch/zerr"

var (
	// ErrModuleAlreadyExists is returned when creating a module whose name is already taken.
	ErrModuleAlreadyExists = zerr.New("module already exists")

	// ErrModuleNotFound is returned when a requested module is not in the store.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrVersionAlreadyExists is returned when adding a version the module already holds.
	ErrVersionAlreadyExists = zerr.New("version already exists")

	// ErrVersionNotFound is returned when a literal version selector matches no release.
	ErrVersionNotFound = zerr.New("version not found")

	// ErrInvalidVersion is returned when a version string is not a dotted sequence of integers.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrNoVersionsAvailable is returned when "latest" is requested on a module without releases.
	ErrNoVersionsAvailable = zerr.New("no versions available")

	// ErrInvalidModuleName is returned when a module name is empty or contains reserved characters.
	ErrInvalidModuleName = zerr.New("invalid module name")

	// ErrPersistenceFailed is returned when the store state cannot be written durably.
	ErrPersistenceFailed = zerr.New("failed to persist store state")

	// ErrStateLocked is returned when another process already holds the persisted store state.
	ErrStateLocked = zerr.New("store state is locked by another process")

	// ErrCorruptState is returned when the persisted store state cannot be decoded or violates invariants.
	ErrCorruptState = zerr.New("persisted store state is corrupt")
)

// tag wraps a sentinel so errors.Is keeps matching it and attaches one metadata pair.
func tag(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}

func zerrModule(err error, name string) error {
	return zerr.With(err, "module", name)
}
