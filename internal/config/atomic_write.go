package config

import (
	"os"

	"github.com/narrative-risk/riskview/internal/fsutil"
)

// AtomicWrite writes a config file atomically, preserving the permissions of an
// existing file and defaulting to 0600 for a new one.
func AtomicWrite(path string, data []byte) error {
	perm := os.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return fsutil.WriteFileAtomic(path, data, perm)
}
