// Package dispatch implements the Dispatcher: it assigns each Segment
// to exactly one WorkerEndpoint, bounded by that endpoint's declared
// slot count, and collects the resulting EncodedSegments. This is the
// scheduling core of a distav1 job.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/five82/distav1/internal/errors"
	"github.com/five82/distav1/internal/job"
	"github.com/five82/distav1/internal/reporter"
	"github.com/five82/distav1/internal/transport"
)

// quarantineWitnessThreshold is the number of distinct workers that
// must independently report EncodeFailed for the same segment before
// it is treated as deterministic (fatal) rather than transient.
const quarantineWitnessThreshold = 2

// WorkerConn pairs a WorkerEndpoint's bookkeeping with the client stub
// used to reach it.
type WorkerConn struct {
	Endpoint *job.WorkerEndpoint
	Client   transport.NodeClient
}

// Dispatcher assigns segments to workers and collects results.
type Dispatcher struct {
	Workers  []*WorkerConn
	Reporter reporter.Reporter
}

// New constructs a Dispatcher. rep may be nil, in which case updates
// are discarded.
func New(workers []*WorkerConn, rep reporter.Reporter) *Dispatcher {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Dispatcher{Workers: workers, Reporter: rep}
}

type attemptResult struct {
	index   uint32
	conn    *WorkerConn
	encoded *job.EncodedSegment
	err     error
}

// Run dispatches every segment to a worker and returns the resulting
// EncodedSegments in the same order as segments. encoderParams is
// passed through to each node verbatim.
func (d *Dispatcher) Run(ctx context.Context, segments []job.Segment, encoderParams string, segmentDuration time.Duration) ([]job.EncodedSegment, error) {
	if len(d.Workers) == 0 {
		return nil, errors.NewNoHealthyWorkersError()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	byIndex := make(map[uint32]job.Segment, len(segments))
	pending := make([]uint32, 0, len(segments))
	for _, s := range segments {
		byIndex[s.Index] = s
		pending = append(pending, s.Index)
	}

	results := make([]*job.EncodedSegment, len(segments))
	witnesses := make(map[uint32]map[string]struct{})

	completions := make(chan attemptResult)
	var wg sync.WaitGroup
	defer wg.Wait()

	completeCount := 0
	inFlight := 0

	for completeCount < len(segments) {
		for len(pending) > 0 {
			conn := pickWorker(d.Workers)
			if conn == nil {
				break
			}
			idx := pending[0]
			pending = pending[1:]
			seg := byIndex[idx]

			conn.Endpoint.Acquire()
			inFlight++
			wg.Add(1)
			go func(conn *WorkerConn, seg job.Segment) {
				defer wg.Done()
				if semErr := conn.Endpoint.Sem.Acquire(ctx, 1); semErr != nil {
					select {
					case completions <- attemptResult{index: seg.Index, conn: conn, err: errors.NewCancelledError()}:
					case <-ctx.Done():
					}
					return
				}
				defer conn.Endpoint.Sem.Release(1)

				encoded, err := attempt(ctx, conn, seg, encoderParams, segmentDuration)
				select {
				case completions <- attemptResult{index: seg.Index, conn: conn, encoded: encoded, err: err}:
				case <-ctx.Done():
				}
			}(conn, seg)
		}

		if len(pending) > 0 && inFlight == 0 {
			return nil, errors.NewNoHealthyWorkersError()
		}

		select {
		case res := <-completions:
			inFlight--
			if res.err == nil {
				res.conn.Endpoint.ReleaseSuccess()
				results[indexPosition(segments, res.index)] = res.encoded
				completeCount++
				d.Reporter.DispatchProgress(snapshot(d.Workers, completeCount, len(segments)))
				continue
			}

			fatal, requeue := d.handleFailure(res, witnesses)
			if fatal != nil {
				cancel()
				return nil, fatal
			}
			if requeue {
				pending = append(pending, res.index)
			}
		case <-ctx.Done():
			return nil, errors.NewCancelledError()
		}
	}

	out := make([]job.EncodedSegment, len(results))
	for i, r := range results {
		out[i] = *r
	}
	return out, nil
}

// handleFailure updates worker and witness state for a failed attempt,
// returning a fatal error if the failure is now deterministic, and
// whether the segment should be requeued otherwise.
func (d *Dispatcher) handleFailure(res attemptResult, witnesses map[uint32]map[string]struct{}) (fatal error, requeue bool) {
	justQuarantined := res.conn.Endpoint.ReleaseFailure()
	if justQuarantined {
		d.Reporter.WorkerQuarantined(reporter.WorkerEvent{Addr: res.conn.Endpoint.Addr, Reason: res.err.Error()})
	}
	rehabilitateOne(d.Workers, res.conn)

	transient := errors.IsTransient(res.err)
	d.Reporter.SegmentFailed(reporter.SegmentFailureEvent{
		Index:     res.index,
		Addr:      res.conn.Endpoint.Addr,
		Transient: transient,
		Message:   res.err.Error(),
	})

	if errors.IsKind(res.err, errors.KindEncodeFailed) {
		set, ok := witnesses[res.index]
		if !ok {
			set = make(map[string]struct{})
			witnesses[res.index] = set
		}
		set[res.conn.Endpoint.Addr] = struct{}{}
		if len(set) >= quarantineWitnessThreshold {
			return errors.NewEncodeFailedError(int(res.index), fmt.Sprintf("confirmed by %d distinct workers: %s", len(set), res.err.Error()), res.err), false
		}
		return nil, true
	}

	return nil, true
}

func attempt(ctx context.Context, conn *WorkerConn, seg job.Segment, encoderParams string, segmentDuration time.Duration) (*job.EncodedSegment, error) {
	payload, readErr := readSegmentFile(seg.Path)
	if readErr != nil {
		return nil, errors.NewIOError("failed to read segment for dispatch", readErr)
	}

	rpcCtx, rpcCancel := context.WithTimeout(ctx, transport.TimeoutForSegment(segmentDuration))
	defer rpcCancel()

	resp, err := conn.Client.Encode(rpcCtx, &transport.EncodeRequest{
		SegmentIndex:  seg.Index,
		Payload:       payload,
		EncoderParams: encoderParams,
	})
	if err != nil {
		return nil, classifyRPCError(int(seg.Index), conn.Endpoint.Addr, rpcCtx, err)
	}

	if err := writeEncodedFile(seg, resp.Payload); err != nil {
		return nil, errors.NewIOError("failed to write encoded segment", err)
	}

	return &job.EncodedSegment{Index: resp.SegmentIndex, Path: encodedPath(seg)}, nil
}

// pickWorker returns the non-quarantined worker with a free slot and
// the lowest current in-flight count, ties broken by list order.
func pickWorker(workers []*WorkerConn) *WorkerConn {
	var best *WorkerConn
	bestInFlight := -1
	for _, w := range workers {
		if w.Endpoint.Quarantined() {
			continue
		}
		inFlight := w.Endpoint.InFlight()
		if inFlight >= w.Endpoint.Slots {
			continue
		}
		if best == nil || inFlight < bestInFlight {
			best = w
			bestInFlight = inFlight
		}
	}
	return best
}

// rehabilitateOne clears quarantine on the first quarantined worker
// other than except, per spec.md §4.2 ("rehabilitated one at a time
// whenever another worker also fails").
func rehabilitateOne(workers []*WorkerConn, except *WorkerConn) {
	for _, w := range workers {
		if w == except {
			continue
		}
		if w.Endpoint.Quarantined() {
			w.Endpoint.Rehabilitate()
			return
		}
	}
}

func indexPosition(segments []job.Segment, index uint32) int {
	for i, s := range segments {
		if s.Index == index {
			return i
		}
	}
	return -1
}

func snapshot(workers []*WorkerConn, complete, total int) reporter.DispatchSnapshot {
	inFlight := make([]reporter.WorkerInFlight, len(workers))
	for i, w := range workers {
		inFlight[i] = reporter.WorkerInFlight{
			Addr:        w.Endpoint.Addr,
			InFlight:    w.Endpoint.InFlight(),
			Slots:       w.Endpoint.Slots,
			Quarantined: w.Endpoint.Quarantined(),
		}
	}
	return reporter.DispatchSnapshot{
		SegmentsComplete: complete,
		SegmentsTotal:    total,
		InFlight:         inFlight,
	}
}
