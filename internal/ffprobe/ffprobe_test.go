package ffprobe

import "testing"

const sdr1080pJSON = `{
  "format": {"duration": "120.500000"},
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "nb_frames": "2892"},
    {"index": 1, "codec_type": "audio", "codec_name": "aac"}
  ]
}`

const multiStreamJSON = `{
  "format": {"duration": "60.0"},
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "hevc", "width": 3840, "height": 2160, "nb_frames": "1500"},
    {"index": 1, "codec_type": "audio", "codec_name": "truehd"},
    {"index": 2, "codec_type": "audio", "codec_name": "ac3"},
    {"index": 3, "codec_type": "subtitle", "codec_name": "subrip"}
  ]
}`

const noVideoJSON = `{
  "format": {"duration": "10.0"},
  "streams": [
    {"index": 0, "codec_type": "audio", "codec_name": "aac"}
  ]
}`

func TestParseProbeJSON_Valid(t *testing.T) {
	probe, err := parseProbeJSON([]byte(sdr1080pJSON))
	if err != nil {
		t.Fatalf("parseProbeJSON() error = %v", err)
	}
	if probe.Format.Duration != "120.500000" {
		t.Errorf("Duration = %q, want %q", probe.Format.Duration, "120.500000")
	}
	if len(probe.Streams) != 2 {
		t.Fatalf("len(Streams) = %d, want 2", len(probe.Streams))
	}
}

func TestParseProbeJSON_Malformed(t *testing.T) {
	_, err := parseProbeJSON([]byte(`{"format": {"duration": "120.5"}, "streams": [}`))
	if err == nil {
		t.Error("parseProbeJSON() expected error for malformed JSON, got nil")
	}
}

func TestMediaInfoFromProbe(t *testing.T) {
	probe, err := parseProbeJSON([]byte(sdr1080pJSON))
	if err != nil {
		t.Fatalf("parseProbeJSON() error = %v", err)
	}

	info, err := mediaInfoFromProbe(probe)
	if err != nil {
		t.Fatalf("mediaInfoFromProbe() error = %v", err)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", info.Width, info.Height)
	}
	if info.DurationSecs != 120.5 {
		t.Errorf("DurationSecs = %f, want 120.5", info.DurationSecs)
	}
	if info.TotalFrames != 2892 {
		t.Errorf("TotalFrames = %d, want 2892", info.TotalFrames)
	}
}

func TestMediaInfoFromProbe_NoVideoStream(t *testing.T) {
	probe, err := parseProbeJSON([]byte(noVideoJSON))
	if err != nil {
		t.Fatalf("parseProbeJSON() error = %v", err)
	}

	_, err = mediaInfoFromProbe(probe)
	if err == nil {
		t.Error("mediaInfoFromProbe() expected error for missing video stream, got nil")
	}
}

func TestStreamsFromProbe(t *testing.T) {
	probe, err := parseProbeJSON([]byte(multiStreamJSON))
	if err != nil {
		t.Fatalf("parseProbeJSON() error = %v", err)
	}

	streams := streamsFromProbe(probe)
	if len(streams) != 4 {
		t.Fatalf("len(streams) = %d, want 4", len(streams))
	}
	if streams[0].CodecType != "video" {
		t.Errorf("streams[0].CodecType = %q, want video", streams[0].CodecType)
	}
}

func TestNonVideoStreamsFiltersVideo(t *testing.T) {
	probe, err := parseProbeJSON([]byte(multiStreamJSON))
	if err != nil {
		t.Fatalf("parseProbeJSON() error = %v", err)
	}

	all := streamsFromProbe(probe)
	var nonVideo []StreamInfo
	for _, s := range all {
		if s.CodecType != "video" {
			nonVideo = append(nonVideo, s)
		}
	}

	if len(nonVideo) != 3 {
		t.Fatalf("len(nonVideo) = %d, want 3", len(nonVideo))
	}
	for _, s := range nonVideo {
		if s.CodecType == "video" {
			t.Error("NonVideoStreams leaked a video stream")
		}
	}
	if nonVideo[0].CodecName != "truehd" || nonVideo[1].CodecName != "ac3" || nonVideo[2].CodecName != "subrip" {
		t.Errorf("unexpected order: %+v", nonVideo)
	}
}
