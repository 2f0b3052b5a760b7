// Package assemble implements the Assembler: it concatenates the
// encoded segments in index order, remuxes in the original input's
// non-video streams, and produces the final output file.
package assemble

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/five82/distav1/internal/errors"
	"github.com/five82/distav1/internal/ffprobe"
	"github.com/five82/distav1/internal/job"
	"github.com/five82/distav1/internal/mediatool"
	"github.com/five82/distav1/internal/workspace"
)

// Assembler concatenates and muxes encoded segments into the final
// output file.
type Assembler struct {
	Tool mediatool.Tool
}

// Run assembles encoded (ascending by Index) into outputPath, copying
// non-video streams from originalInputPath. ws supplies scratch paths
// for the manifest and the intermediate concatenation.
func (a Assembler) Run(ctx context.Context, encoded []job.EncodedSegment, originalInputPath, outputPath string, ws *workspace.Workspace) error {
	if len(encoded) == 0 {
		return errors.NewAssemblyFailedError("no encoded segments to assemble", nil)
	}

	ordered := make([]job.EncodedSegment, len(encoded))
	copy(ordered, encoded)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	videoPath, err := a.concatenate(ctx, ordered, ws)
	if err != nil {
		return err
	}

	nonVideo, err := ffprobe.NonVideoStreams(originalInputPath)
	if err != nil {
		return errors.NewAssemblyFailedError("failed to inspect original input for non-video streams", err)
	}

	return a.mux(ctx, videoPath, originalInputPath, outputPath, len(nonVideo))
}

// concatenate returns the path to a video-only intermediate: the single
// encoded segment's own path when there is exactly one, or the result
// of a concat-mode invocation otherwise.
func (a Assembler) concatenate(ctx context.Context, ordered []job.EncodedSegment, ws *workspace.Workspace) (string, error) {
	if len(ordered) == 1 {
		return ordered[0].Path, nil
	}

	manifestPath := ws.ManifestPath()
	if err := writeManifest(manifestPath, ordered); err != nil {
		return "", errors.NewIOError("failed to write concat manifest", err)
	}

	outPath := ws.ConcatOutputPath()
	result := a.Tool.Concat(ctx, manifestPath, outPath)
	if !result.Success {
		return "", errors.NewAssemblyFailedError("concat step failed", errors.WrapExecError(a.Tool.Path, result.Err, result.Stderr))
	}
	return outPath, nil
}

// mux combines the video intermediate with the original's non-video
// streams. When the original has none, the mux step still runs; the
// media tool's optional stream maps (`1:a?` etc.) degenerate to a
// container copy of the video alone.
func (a Assembler) mux(ctx context.Context, videoPath, originalPath, outputPath string, nonVideoStreamCount int) error {
	_ = nonVideoStreamCount // mediatool.Mux's optional maps already handle zero non-video streams
	result := a.Tool.Mux(ctx, videoPath, originalPath, outputPath)
	if !result.Success {
		return errors.NewAssemblyFailedError("mux step failed", errors.WrapExecError(a.Tool.Path, result.Err, result.Stderr))
	}
	return nil
}

func writeManifest(path string, ordered []job.EncodedSegment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, seg := range ordered {
		if _, err := fmt.Fprintf(f, "file '%s'\n", seg.Path); err != nil {
			return err
		}
	}
	return nil
}
