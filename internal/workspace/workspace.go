// Package workspace manages the scoped temp directory each client and
// node invocation works in: segment files, encoded results, and the
// concat manifest all live under one Workspace, removed on every exit
// path. Grounded on five82/reel's internal/util/tempfile.go.
package workspace

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/five82/distav1/internal/errors"
)

// MinFreeSpaceMB is the minimum free space a workspace root should have
// before starting a job. Advisory only; CheckFreeSpace just reports it.
const MinFreeSpaceMB = 500

// Workspace is a directory scoped to one job or one node invocation.
type Workspace struct {
	root string
}

// Open creates a new scoped subdirectory under baseDir named with prefix
// and a random suffix. The caller must call Close when done.
func Open(baseDir, prefix string) (*Workspace, error) {
	if err := ensureWritable(baseDir); err != nil {
		return nil, errors.NewIOError("workspace base directory is not usable", err)
	}

	suffix, err := randomSuffix(8)
	if err != nil {
		return nil, errors.NewIOError("failed to generate workspace suffix", err)
	}

	root := filepath.Join(baseDir, fmt.Sprintf("%s_%s", prefix, suffix))
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.NewIOError("failed to create workspace directory", err)
	}

	return &Workspace{root: root}, nil
}

// Root returns the workspace's root directory.
func (w *Workspace) Root() string {
	return w.root
}

// SegmentPath returns the deterministic path for an input segment file
// at the given index.
func (w *Workspace) SegmentPath(index uint32) string {
	return filepath.Join(w.root, fmt.Sprintf("segment_%06d.mkv", index))
}

// EncodedPath returns the deterministic path for an encoded segment
// file at the given index.
func (w *Workspace) EncodedPath(index uint32) string {
	return filepath.Join(w.root, fmt.Sprintf("encoded_%06d.mkv", index))
}

// ManifestPath returns the path of the concat manifest written by the
// Assembler.
func (w *Workspace) ManifestPath() string {
	return filepath.Join(w.root, "concat.txt")
}

// ConcatOutputPath returns the path of the video-only concatenation
// intermediate, prior to muxing back non-video streams.
func (w *Workspace) ConcatOutputPath() string {
	return filepath.Join(w.root, "concatenated.mkv")
}

// Close removes the workspace and everything under it. Safe to call
// more than once.
func (w *Workspace) Close() error {
	if w.root == "" {
		return nil
	}
	return os.RemoveAll(w.root)
}

// CheckFreeSpace reports the workspace's available space in MB and
// whether it meets MinFreeSpaceMB. Returns (0, true) if the available
// space cannot be determined, matching the teacher's "warn, don't
// block" posture.
func (w *Workspace) CheckFreeSpace() (availableMB uint64, ok bool) {
	var stat unix.Statfs_t
	if err := unix.Statfs(w.root, &stat); err != nil {
		return 0, true
	}
	availableMB = (stat.Bavail * uint64(stat.Bsize)) / (1024 * 1024)
	return availableMB, availableMB >= MinFreeSpaceMB
}

func ensureWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	probe := filepath.Join(path, ".distav1_write_test")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("directory is not writable: %s", path)
	}
	_ = f.Close()
	_ = os.Remove(probe)
	return nil
}

func randomSuffix(n int) (string, error) {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b)[:n], nil
}
