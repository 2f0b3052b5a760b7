package transport

import (
	"testing"
	"time"
)

func TestTimeoutForSegment(t *testing.T) {
	got := TimeoutForSegment(10 * time.Second)
	want := 600 * time.Second
	if got != want {
		t.Errorf("TimeoutForSegment(10s) = %v, want %v", got, want)
	}
}

func TestTimeoutForSegmentFloor(t *testing.T) {
	got := TimeoutForSegment(100 * time.Millisecond)
	if got != 30*time.Second {
		t.Errorf("TimeoutForSegment(100ms) = %v, want 30s floor", got)
	}
}

func TestJSONCodecRoundTrip(t *testing.T) {
	codec := jsonCodec{}

	req := &EncodeRequest{SegmentIndex: 7, Payload: []byte("data"), EncoderParams: "--crf 30"}
	b, err := codec.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got EncodeRequest
	if err := codec.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.SegmentIndex != 7 || string(got.Payload) != "data" || got.EncoderParams != "--crf 30" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestJSONCodecName(t *testing.T) {
	if (jsonCodec{}).Name() != jsonCodecName {
		t.Errorf("Name() = %q, want %q", (jsonCodec{}).Name(), jsonCodecName)
	}
}
