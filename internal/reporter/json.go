package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events compatible with Spindle.
type JSONReporter struct {
	writer             io.Writer
	mu                 sync.Mutex
	lastProgressBucket int
	lastProgressTime   time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{
		writer:             os.Stdout,
		lastProgressBucket: -1,
	}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer:             w,
		lastProgressBucket: -1,
	}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) Hardware(summary HardwareSummary) {
	r.write(map[string]interface{}{
		"type":      "hardware",
		"hostname":  summary.Hostname,
		"workers":   summary.Workers,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) JobStarted(summary JobSummary) {
	workers := make([]map[string]interface{}, len(summary.Workers))
	for i, w := range summary.Workers {
		workers[i] = map[string]interface{}{"addr": w.Addr, "slots": w.Slots}
	}
	r.write(map[string]interface{}{
		"type":        "job_started",
		"input_file":  summary.InputFile,
		"output_file": summary.OutputFile,
		"duration":    summary.Duration,
		"workers":     workers,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) StageProgress(update StageProgress) {
	event := map[string]interface{}{
		"type":      "stage_progress",
		"stage":     update.Stage,
		"percent":   update.Percent,
		"message":   update.Message,
		"timestamp": r.timestamp(),
	}
	if update.ETA != nil {
		event["eta_seconds"] = int64(update.ETA.Seconds())
	}
	r.write(event)
}

func (r *JSONReporter) SegmentationComplete(summary SegmentationSummary) {
	r.write(map[string]interface{}{
		"type":              "segmentation_complete",
		"segment_count":     summary.SegmentCount,
		"total_duration_ms": summary.TotalDuration.Milliseconds(),
		"timestamp":         r.timestamp(),
	})
}

func (r *JSONReporter) DispatchProgress(snapshot DispatchSnapshot) {
	const minInterval = 5 * time.Second

	var percent float64
	if snapshot.SegmentsTotal > 0 {
		percent = float64(snapshot.SegmentsComplete) / float64(snapshot.SegmentsTotal) * 100
	}
	bucket := int(percent)
	now := time.Now()

	r.mu.Lock()
	intervalElapsed := r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	shouldEmit := bucket > r.lastProgressBucket || intervalElapsed || percent >= 99.0
	if !shouldEmit {
		r.mu.Unlock()
		return
	}
	if bucket > r.lastProgressBucket {
		r.lastProgressBucket = bucket
	}
	r.lastProgressTime = now
	r.mu.Unlock()

	inFlight := make([]map[string]interface{}, len(snapshot.InFlight))
	for i, w := range snapshot.InFlight {
		inFlight[i] = map[string]interface{}{
			"addr":        w.Addr,
			"in_flight":   w.InFlight,
			"slots":       w.Slots,
			"quarantined": w.Quarantined,
		}
	}

	r.write(map[string]interface{}{
		"type":              "dispatch_progress",
		"segments_complete": snapshot.SegmentsComplete,
		"segments_total":    snapshot.SegmentsTotal,
		"bytes_complete":    snapshot.BytesComplete,
		"percent":           percent,
		"workers":           inFlight,
		"timestamp":         r.timestamp(),
	})
}

func (r *JSONReporter) WorkerQuarantined(event WorkerEvent) {
	r.write(map[string]interface{}{
		"type":      "worker_quarantined",
		"addr":      event.Addr,
		"reason":    event.Reason,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) WorkerRehabilitated(event WorkerEvent) {
	r.write(map[string]interface{}{
		"type":      "worker_rehabilitated",
		"addr":      event.Addr,
		"reason":    event.Reason,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) SegmentFailed(event SegmentFailureEvent) {
	r.write(map[string]interface{}{
		"type":      "segment_failed",
		"index":     event.Index,
		"addr":      event.Addr,
		"transient": event.Transient,
		"message":   event.Message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) AssemblyComplete(summary AssemblyOutcome) {
	r.write(map[string]interface{}{
		"type":              "assembly_complete",
		"output_file":       summary.OutputFile,
		"output_size":       summary.OutputSize,
		"segment_count":     summary.SegmentCount,
		"non_video_streams": summary.NonVideoStreams,
		"duration_seconds":  int64(summary.TotalTime.Seconds()),
		"timestamp":         r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) JobComplete(message string) {
	r.write(map[string]interface{}{
		"type":      "job_complete",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]interface{}{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}
