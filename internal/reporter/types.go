// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// HardwareSummary contains hardware information about the local process.
type HardwareSummary struct {
	Hostname string
	Workers  int
}

// WorkerSummary describes one configured worker endpoint.
type WorkerSummary struct {
	Addr  string
	Slots int
}

// JobSummary describes a job before dispatch begins.
type JobSummary struct {
	InputFile  string
	OutputFile string
	Duration   string
	Workers    []WorkerSummary
}

// StageProgress represents a generic pipeline stage update
// (segmenting, dispatching, assembling).
type StageProgress struct {
	Stage   string
	Percent float32
	Message string
	ETA     *time.Duration
}

// SegmentationSummary contains the result of the Segmenter stage.
type SegmentationSummary struct {
	SegmentCount  int
	TotalDuration time.Duration
}

// WorkerInFlight is a worker's current in-flight count, sampled for the
// dispatch progress snapshot.
type WorkerInFlight struct {
	Addr        string
	InFlight    int
	Slots       int
	Quarantined bool
}

// DispatchSnapshot contains dispatch progress information.
type DispatchSnapshot struct {
	SegmentsComplete int
	SegmentsTotal    int
	BytesComplete    uint64
	InFlight         []WorkerInFlight
}

// WorkerEvent describes a quarantine or rehabilitation transition.
type WorkerEvent struct {
	Addr   string
	Reason string
}

// SegmentFailureEvent describes one failed attempt of a segment on a worker,
// whatever the error kind. Transient is errors.IsTransient of that error.
type SegmentFailureEvent struct {
	Index     uint32
	Addr      string
	Transient bool
	Message   string
}

// AssemblyOutcome contains the result of the Assembler stage.
type AssemblyOutcome struct {
	OutputFile      string
	OutputSize      uint64
	SegmentCount    int
	NonVideoStreams int
	TotalTime       time.Duration
}

// ReporterError contains error information for display.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}
