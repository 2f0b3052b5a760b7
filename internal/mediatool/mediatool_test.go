package mediatool

import "testing"

func TestParseProgressLine(t *testing.T) {
	line := "frame=  120 fps= 30 q=28.0 size=    1024kB time=00:00:04.00 bitrate=2048.0kbits/s speed=1.5x"

	progress := parseProgressLine(line, 600)
	if progress == nil {
		t.Fatal("parseProgressLine() returned nil")
	}
	if progress.CurrentFrame != 120 {
		t.Errorf("CurrentFrame = %d, want 120", progress.CurrentFrame)
	}
	if progress.FPS != 30 {
		t.Errorf("FPS = %f, want 30", progress.FPS)
	}
	if progress.Speed != 1.5 {
		t.Errorf("Speed = %f, want 1.5", progress.Speed)
	}
	if progress.Bitrate != "2048.0kbits/s" {
		t.Errorf("Bitrate = %q, want %q", progress.Bitrate, "2048.0kbits/s")
	}
	if progress.Percent != 20 {
		t.Errorf("Percent = %f, want 20", progress.Percent)
	}
}

func TestParseProgressLine_NoFrameMarker(t *testing.T) {
	progress := parseProgressLine("some unrelated ffmpeg banner line", 600)
	if progress == nil {
		t.Fatal("parseProgressLine() returned nil")
	}
	if progress.CurrentFrame != 0 {
		t.Errorf("CurrentFrame = %d, want 0", progress.CurrentFrame)
	}
}

func TestParseToolTime(t *testing.T) {
	secs, ok := parseToolTime("00:01:30.50")
	if !ok {
		t.Fatal("parseToolTime() returned ok=false")
	}
	want := 90.5
	if secs != want {
		t.Errorf("parseToolTime() = %f, want %f", secs, want)
	}
}

func TestParseToolTime_Invalid(t *testing.T) {
	if _, ok := parseToolTime("not-a-time"); ok {
		t.Error("parseToolTime() expected ok=false for malformed input")
	}
}

func TestToolPathDefault(t *testing.T) {
	var tool Tool
	if tool.path() != "ffmpeg" {
		t.Errorf("path() = %q, want ffmpeg", tool.path())
	}

	tool = Tool{Path: "custom-transcoder"}
	if tool.path() != "custom-transcoder" {
		t.Errorf("path() = %q, want custom-transcoder", tool.path())
	}
}
