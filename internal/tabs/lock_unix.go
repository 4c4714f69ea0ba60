//go:build unix

package tabs

import (
	"os"
	"syscall"
	"time"
)

const lockPoll = 50 * time.Millisecond

// lockFile polls for an exclusive flock on f until timeout passes.
// The returned func drops the lock.
func lockFile(f *os.File, timeout time.Duration) (func(), error) {
	fd := int(f.Fd()) //nolint:gosec // Fd fits in int
	deadline := time.Now().Add(timeout)

	for syscall.Flock(fd, syscall.LOCK_EX|syscall.LOCK_NB) != nil {
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		time.Sleep(lockPoll)
	}

	return func() {
		_ = syscall.Flock(fd, syscall.LOCK_UN) //nolint:errcheck // Closing the file drops it anyway
	}, nil
}
