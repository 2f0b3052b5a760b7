package dispatch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/five82/distav1/internal/job"
)

func readSegmentFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// encodedPath places the encoded result alongside its source segment,
// in the same workspace directory, keyed by index.
func encodedPath(seg job.Segment) string {
	dir := filepath.Dir(seg.Path)
	return filepath.Join(dir, fmt.Sprintf("encoded_%06d.mkv", seg.Index))
}

func writeEncodedFile(seg job.Segment, payload []byte) error {
	return os.WriteFile(encodedPath(seg), payload, 0o644)
}
