package segment

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/five82/distav1/internal/errors"
)

func TestSegmentsFromWorkspaceOrdersByIndex(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002.mkv", "000000.mkv", "000001.mkv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	segments, err := segmentsFromWorkspace(dir, 10*time.Second)
	if err != nil {
		t.Fatalf("segmentsFromWorkspace() error = %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("len(segments) = %d, want 3", len(segments))
	}
	for i, seg := range segments {
		if seg.Index != uint32(i) {
			t.Errorf("segments[%d].Index = %d, want %d", i, seg.Index, i)
		}
	}
	if filepath.Base(segments[0].Path) != "000000.mkv" {
		t.Errorf("segments[0].Path = %q, want 000000.mkv", segments[0].Path)
	}
}

func TestSegmentsFromWorkspaceIgnoresNonMkv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "000000.mkv"), []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	segments, err := segmentsFromWorkspace(dir, time.Second)
	if err != nil {
		t.Fatalf("segmentsFromWorkspace() error = %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("len(segments) = %d, want 1", len(segments))
	}
}

func TestSegmentsFromWorkspaceEmptyDirFails(t *testing.T) {
	dir := t.TempDir()

	_, err := segmentsFromWorkspace(dir, time.Second)
	if !errors.IsKind(err, errors.KindSegmentationFailed) {
		t.Errorf("expected SegmentationFailed error, got %v", err)
	}
}
