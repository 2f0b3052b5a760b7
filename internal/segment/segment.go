// Package segment implements the Segmenter: it cuts an input's video
// stream into an ordered, keyframe-aligned sequence of Segments on
// disk, ready for the Dispatcher to hand out.
package segment

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/five82/distav1/internal/errors"
	"github.com/five82/distav1/internal/ffprobe"
	"github.com/five82/distav1/internal/job"
	"github.com/five82/distav1/internal/mediatool"
	"github.com/five82/distav1/internal/workspace"
)

// Segmenter invokes the media tool in segmenting mode and reports the
// resulting Segments in temporal order.
type Segmenter struct {
	Tool mediatool.Tool
}

// Run segments inputPath into segmentDuration-ish chunks inside ws,
// returning them in ascending index order.
func (s Segmenter) Run(ctx context.Context, inputPath string, segmentDuration time.Duration, ws *workspace.Workspace) ([]job.Segment, error) {
	info, err := ffprobe.GetMediaInfo(inputPath)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if info.DurationSecs <= 0 {
		return nil, errors.NewInvalidInputError("input has zero-length video stream")
	}

	result := s.Tool.Segment(ctx, inputPath, ws.Root(), segmentDuration)
	if !result.Success {
		return nil, errors.NewSegmentationFailedError("segmenting tool failed", errors.WrapExecError(s.Tool.Path, result.Err, result.Stderr))
	}

	return segmentsFromWorkspace(ws.Root(), segmentDuration)
}

// segmentsFromWorkspace discovers the %06d.mkv files the tool produced
// and assigns Segment indices in ascending filename order. Every
// segment, the last one included, is given segmentDuration as its
// Duration; the real per-segment lengths are not probed.
func segmentsFromWorkspace(root string, segmentDuration time.Duration) ([]job.Segment, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.NewIOError("failed to list workspace after segmenting", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".mkv" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, errors.NewSegmentationFailedError("segmenting tool produced no output files", nil)
	}

	segments := make([]job.Segment, len(names))
	for i, name := range names {
		segments[i] = job.Segment{
			Index:    uint32(i),
			Path:     filepath.Join(root, name),
			Duration: segmentDuration,
		}
	}
	return segments, nil
}
