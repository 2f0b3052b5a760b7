// Package ffprobe provides functions for extracting media information using ffprobe.
package ffprobe

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// MediaInfo contains basic media information about the input's video stream.
type MediaInfo struct {
	DurationSecs float64
	Width        int64
	Height       int64
	TotalFrames  uint64
}

// StreamInfo describes one stream of the input container, in input order.
type StreamInfo struct {
	Index     int
	CodecType string // "video", "audio", "subtitle", "attachment", "data"
	CodecName string
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int64  `json:"width"`
	Height    int64  `json:"height"`
	NbFrames  string `json:"nb_frames"`
}

// runFFprobe executes ffprobe and returns the parsed output.
func runFFprobe(inputPath string) (*ffprobeOutput, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeJSON(output)
}

// parseProbeJSON parses raw ffprobe JSON output, split out from runFFprobe
// so it can be exercised without shelling out.
func parseProbeJSON(data []byte) (*ffprobeOutput, error) {
	var result ffprobeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &result, nil
}

// mediaInfoFromProbe extracts MediaInfo from parsed ffprobe output.
func mediaInfoFromProbe(probe *ffprobeOutput) (*MediaInfo, error) {
	info := &MediaInfo{}

	if probe.Format.Duration != "" {
		if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			info.DurationSecs = d
		}
	}

	for _, stream := range probe.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			if stream.NbFrames != "" {
				if frames, err := strconv.ParseUint(stream.NbFrames, 10, 64); err == nil {
					info.TotalFrames = frames
				}
			}
			break
		}
	}

	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("no video stream found")
	}

	return info, nil
}

// streamsFromProbe extracts the ordered StreamInfo list from parsed ffprobe output.
func streamsFromProbe(probe *ffprobeOutput) []StreamInfo {
	streams := make([]StreamInfo, len(probe.Streams))
	for i, s := range probe.Streams {
		streams[i] = StreamInfo{
			Index:     s.Index,
			CodecType: s.CodecType,
			CodecName: s.CodecName,
		}
	}
	return streams
}

// GetMediaInfo returns basic information about the input's video stream,
// used by the Segmenter to validate input and size progress reporting.
func GetMediaInfo(inputPath string) (*MediaInfo, error) {
	probe, err := runFFprobe(inputPath)
	if err != nil {
		return nil, err
	}
	return mediaInfoFromProbe(probe)
}

// ListStreams returns every stream of the input container, in input order.
func ListStreams(inputPath string) ([]StreamInfo, error) {
	probe, err := runFFprobe(inputPath)
	if err != nil {
		return nil, err
	}
	return streamsFromProbe(probe), nil
}

// NonVideoStreams returns the ordered set of streams that are not the
// selected video stream: audio, subtitles, chapters, attachments. This is
// the set the Assembler must reattach bit-exact into the final container.
func NonVideoStreams(inputPath string) ([]StreamInfo, error) {
	all, err := ListStreams(inputPath)
	if err != nil {
		return nil, err
	}

	var nonVideo []StreamInfo
	for _, s := range all {
		if s.CodecType != "video" {
			nonVideo = append(nonVideo, s)
		}
	}
	return nonVideo, nil
}
