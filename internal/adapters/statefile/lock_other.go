//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package statefile

// fileLock is a no-op where flock is unavailable.
type fileLock struct{}

func acquireLock(string) (*fileLock, error) {
	return &fileLock{}, nil
}

func (*fileLock) release() error {
	return nil
}
