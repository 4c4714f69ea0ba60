//go:build !unix

package tabs

import (
	"os"
	"time"
)

// lockFile does nothing on platforms without flock.
func lockFile(*os.File, time.Duration) (func(), error) {
	return func() {}, nil
}
