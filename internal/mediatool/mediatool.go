// Package mediatool wraps the external media tool invoked in the four modes
// the core depends on: segmenting, encoding, concatenation, and muxing. The
// core never parses the tool's own output beyond progress telemetry, and
// never interprets the caller-supplied encoder parameter string.
package mediatool

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Progress represents a single progress sample parsed from the tool's
// stderr during an encode invocation.
type Progress struct {
	CurrentFrame uint64
	TotalFrames  uint64
	Percent      float32
	Speed        float32
	FPS          float32
	ETA          time.Duration
	Bitrate      string
	ElapsedSecs  float64
}

// ProgressCallback is invoked with progress updates during an encode.
type ProgressCallback func(Progress)

// Result carries the outcome of a tool invocation.
type Result struct {
	Success  bool
	ExitCode int
	Stderr   string
	Err      error
}

// Tool invokes the external media tool. Path defaults to "ffmpeg" when empty;
// any tool accepting the contract in spec.md §6 may be substituted.
type Tool struct {
	Path string
}

func (t Tool) path() string {
	if t.Path == "" {
		return "ffmpeg"
	}
	return t.Path
}

// Segment invokes the tool in segmenting mode: keyframe-aligned cuts,
// producing %06d-indexed, video-only container files in outDir.
func (t Tool) Segment(ctx context.Context, inputPath, outDir string, segmentDuration time.Duration) Result {
	pattern := filepath.Join(outDir, "%06d.mkv")
	args := []string{
		"-nostdin", "-y",
		"-i", inputPath,
		"-map", "0:v:0",
		"-c", "copy",
		"-f", "segment",
		"-segment_time", fmt.Sprintf("%.3f", segmentDuration.Seconds()),
		"-reset_timestamps", "1",
		pattern,
	}
	return t.run(ctx, args)
}

// Encode invokes the tool once, passing encoderParams verbatim as additional
// arguments between the input and output paths, per spec.md §6: the core
// must not parse or filter this string.
func (t Tool) Encode(ctx context.Context, inputPath, outputPath, encoderParams string, totalFrames uint64, callback ProgressCallback) Result {
	args := []string{"-nostdin", "-y", "-i", inputPath}
	args = append(args, strings.Fields(encoderParams)...)
	args = append(args, outputPath)
	return t.runWithProgress(ctx, args, totalFrames, callback)
}

// Concat invokes the tool in concat mode against an ascending-index manifest,
// producing a video-only intermediate without re-encoding.
func (t Tool) Concat(ctx context.Context, manifestPath, outputPath string) Result {
	args := []string{
		"-nostdin", "-y",
		"-f", "concat", "-safe", "0",
		"-i", manifestPath,
		"-c", "copy",
		outputPath,
	}
	return t.run(ctx, args)
}

// Mux combines the concatenated video with every non-video stream copied
// from the original input, preserving stream order.
func (t Tool) Mux(ctx context.Context, videoPath, originalPath, outputPath string) Result {
	args := []string{
		"-nostdin", "-y",
		"-i", videoPath,
		"-i", originalPath,
		"-map", "0:v:0",
		"-map", "1:a?",
		"-map", "1:s?",
		"-map", "1:t?",
		"-map", "1:d?",
		"-c", "copy",
		outputPath,
	}
	return t.run(ctx, args)
}

func (t Tool) run(ctx context.Context, args []string) Result {
	cmd := exec.CommandContext(ctx, t.path(), args...)
	setProcessGroup(cmd)
	var stderrBuf strings.Builder
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	stderr := stderrBuf.String()

	if err != nil {
		return Result{Success: false, ExitCode: exitCode(err), Stderr: stderr, Err: err}
	}
	return Result{Success: true, Stderr: stderr}
}

func (t Tool) runWithProgress(ctx context.Context, args []string, totalFrames uint64, callback ProgressCallback) Result {
	cmd := exec.CommandContext(ctx, t.path(), args...)
	setProcessGroup(cmd)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{Success: false, Err: fmt.Errorf("failed to get stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return Result{Success: false, Err: fmt.Errorf("failed to start %s: %w", t.path(), err)}
	}

	var stderrBuilder strings.Builder
	parseProgress(stderr, &stderrBuilder, totalFrames, callback)

	err = cmd.Wait()
	stderrStr := stderrBuilder.String()

	if err != nil {
		return Result{Success: false, ExitCode: exitCode(err), Stderr: stderrStr, Err: err}
	}
	return Result{Success: true, Stderr: stderrStr}
}

func exitCode(err error) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

var timeRegex = regexp.MustCompile(`time=(\d{2}:\d{2}:\d{2}\.?\d*)`)

// parseProgress reads the tool's stderr line-by-line and reports progress.
func parseProgress(stderr io.Reader, stderrBuilder *strings.Builder, totalFrames uint64, callback ProgressCallback) {
	reader := bufio.NewReader(stderr)
	var lineBuf strings.Builder

	for {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}

		stderrBuilder.WriteByte(b)

		if b == '\r' || b == '\n' {
			line := lineBuf.String()
			lineBuf.Reset()

			if callback != nil && strings.Contains(line, "frame=") {
				if progress := parseProgressLine(line, totalFrames); progress != nil {
					callback(*progress)
				}
			}
		} else {
			lineBuf.WriteByte(b)
		}
	}
}

// parseProgressLine extracts progress information from one progress line.
func parseProgressLine(line string, totalFrames uint64) *Progress {
	var elapsedSecs float64
	if matches := timeRegex.FindStringSubmatch(line); len(matches) >= 2 {
		if secs, ok := parseToolTime(matches[1]); ok {
			elapsedSecs = secs
		}
	}

	var frame uint64
	var fps, speed float32
	var bitrate string

	if idx := strings.Index(line, "frame="); idx >= 0 {
		remaining := strings.TrimLeft(line[idx+6:], " ")
		if spaceIdx := strings.IndexAny(remaining, " \t"); spaceIdx > 0 {
			if f, err := strconv.ParseUint(remaining[:spaceIdx], 10, 64); err == nil {
				frame = f
			}
		}
	}

	if idx := strings.Index(line, "fps="); idx >= 0 {
		remaining := strings.TrimLeft(line[idx+4:], " ")
		if spaceIdx := strings.IndexAny(remaining, " \t"); spaceIdx > 0 {
			if f, err := strconv.ParseFloat(remaining[:spaceIdx], 32); err == nil {
				fps = float32(f)
			}
		}
	}

	if idx := strings.Index(line, "bitrate="); idx >= 0 {
		remaining := strings.TrimLeft(line[idx+8:], " ")
		if spaceIdx := strings.IndexAny(remaining, " \t"); spaceIdx > 0 {
			bitrate = remaining[:spaceIdx]
		}
	}

	if idx := strings.Index(line, "speed="); idx >= 0 {
		remaining := strings.TrimLeft(line[idx+6:], " ")
		if spaceIdx := strings.IndexAny(remaining, " \t\rx\n"); spaceIdx > 0 {
			remaining = remaining[:spaceIdx]
		}
		remaining = strings.TrimSuffix(remaining, "x")
		if s, err := strconv.ParseFloat(remaining, 32); err == nil {
			speed = float32(s)
		}
	}

	var percent float32
	if totalFrames > 0 {
		percent = float32(frame) / float32(totalFrames) * 100
		if percent > 100 {
			percent = 100
		}
	}

	var eta time.Duration
	if speed > 0 && totalFrames > 0 && frame < totalFrames {
		remainingFrames := totalFrames - frame
		etaSeconds := float64(remainingFrames) / (float64(fps) + 1e-9)
		if fps > 0 {
			eta = time.Duration(etaSeconds) * time.Second
		}
	}

	return &Progress{
		CurrentFrame: frame,
		TotalFrames:  totalFrames,
		Percent:      percent,
		Speed:        speed,
		FPS:          fps,
		ETA:          eta,
		Bitrate:      bitrate,
		ElapsedSecs:  elapsedSecs,
	}
}

// parseToolTime parses a tool time string (HH:MM:SS.MS) to seconds.
func parseToolTime(timeStr string) (float64, bool) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 3 {
		return 0, false
	}

	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}

	return hours*3600 + minutes*60 + seconds, true
}
