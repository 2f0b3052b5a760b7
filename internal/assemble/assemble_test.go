package assemble

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/distav1/internal/errors"
	"github.com/five82/distav1/internal/job"
)

func TestRunFailsOnNoEncodedSegments(t *testing.T) {
	a := Assembler{}
	err := a.Run(context.Background(), nil, "/in.mkv", "/out.mkv", nil)
	if !errors.IsKind(err, errors.KindAssemblyFailed) {
		t.Fatalf("Run() error = %v, want KindAssemblyFailed", err)
	}
}

func TestConcatenateSingleSegmentSkipsToolInvocation(t *testing.T) {
	a := Assembler{}
	ordered := []job.EncodedSegment{{Index: 0, Path: "/tmp/encoded_000000.mkv"}}

	path, err := a.concatenate(context.Background(), ordered, nil)
	if err != nil {
		t.Fatalf("concatenate() error = %v", err)
	}
	if path != ordered[0].Path {
		t.Errorf("concatenate() = %q, want %q (the segment's own path)", path, ordered[0].Path)
	}
}

func TestWriteManifestAscendingOrder(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "concat.txt")

	ordered := []job.EncodedSegment{
		{Index: 0, Path: "/ws/encoded_000000.mkv"},
		{Index: 1, Path: "/ws/encoded_000001.mkv"},
	}
	if err := writeManifest(manifestPath, ordered); err != nil {
		t.Fatalf("writeManifest() error = %v", err)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "000000") || !strings.Contains(lines[1], "000001") {
		t.Errorf("unexpected manifest order: %v", lines)
	}
}
