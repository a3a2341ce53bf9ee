package runtimepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoCompositorSocket is returned when no compositor socket is configured
// and neither SWAYSOCK nor I3SOCK is set.
var ErrNoCompositorSocket = errors.New("compositor socket not found: set SWAYSOCK or socket_path")

// Dir returns the runtime directory used for the daemon lock. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/swaytile-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/swaytile-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// CompositorSocket resolves the compositor IPC socket. An explicit path
// wins, then SWAYSOCK, then I3SOCK.
func CompositorSocket(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	for _, key := range []string{"SWAYSOCK", "I3SOCK"} {
		if path := os.Getenv(key); path != "" {
			return path, nil
		}
	}
	return "", ErrNoCompositorSocket
}

// DaemonLockPath returns the lock file that keeps a single daemon running.
func DaemonLockPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "swaytile-daemon.lock"), nil
}
