// Package job holds the domain types shared by the client and node:
// a Job description, the Segment/EncodedSegment units that flow through
// the pipeline, and the WorkerEndpoint bookkeeping the Dispatcher mutates.
package job

import (
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// DefaultSegmentDuration is used when a Job does not specify one.
const DefaultSegmentDuration = 10 * time.Second

// Job describes one client invocation end-to-end.
type Job struct {
	InputPath       string
	OutputPath      string
	EncoderParams   string
	Workers         []*WorkerEndpoint
	SegmentDuration time.Duration
	TempRoot        string
}

// Segment is a contiguous, independently decodable slice of the input's
// video stream, produced by the Segmenter and consumed by the Dispatcher.
type Segment struct {
	Index    uint32
	Path     string
	Duration time.Duration
}

// EncodedSegment is the result of a successful transcode of one Segment.
type EncodedSegment struct {
	Index uint32
	Path  string
}

// WorkerEndpoint is one configured worker node. InFlight, Failures, and
// Quarantined are mutated concurrently by Dispatcher goroutines and are
// guarded by mu. Sem is the hard bound on concurrent RPCs against this
// worker; pickWorker's in-flight scan keeps it from ever blocking in
// normal operation, but callers acquire it before every attempt anyway
// so a scheduling bug fails closed instead of overrunning a node's slots.
type WorkerEndpoint struct {
	Addr  string
	Slots int
	Sem   *semaphore.Weighted

	mu          sync.Mutex
	inFlight    int
	failures    int
	quarantined bool
}

// NewWorkerEndpoint constructs an endpoint with the given address and slot count.
func NewWorkerEndpoint(addr string, slots int) *WorkerEndpoint {
	return &WorkerEndpoint{Addr: addr, Slots: slots, Sem: semaphore.NewWeighted(int64(slots))}
}

// InFlight returns the worker's current in-flight RPC count.
func (w *WorkerEndpoint) InFlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Failures returns the worker's current consecutive-failure count.
func (w *WorkerEndpoint) Failures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failures
}

// Quarantined reports whether the worker is currently excluded from dispatch.
func (w *WorkerEndpoint) Quarantined() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quarantined
}

// Acquire records the start of one RPC against this worker.
func (w *WorkerEndpoint) Acquire() {
	w.mu.Lock()
	w.inFlight++
	w.mu.Unlock()
}

// ReleaseSuccess records a successful RPC completion, resetting the failure streak.
func (w *WorkerEndpoint) ReleaseSuccess() {
	w.mu.Lock()
	w.inFlight--
	w.failures = 0
	w.mu.Unlock()
}

// quarantineThreshold is the number of consecutive failures that quarantines a worker.
const quarantineThreshold = 3

// ReleaseFailure records a failed RPC completion, incrementing the failure
// streak. Returns true if this call just quarantined the worker.
func (w *WorkerEndpoint) ReleaseFailure() (justQuarantined bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight--
	w.failures++
	if !w.quarantined && w.failures >= quarantineThreshold {
		w.quarantined = true
		justQuarantined = true
	}
	return justQuarantined
}

// Rehabilitate clears quarantine and resets the failure streak.
func (w *WorkerEndpoint) Rehabilitate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.quarantined = false
	w.failures = 0
}
