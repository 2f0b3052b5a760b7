// Package runner wires the Segmenter, Dispatcher, and Assembler into
// one client job: the glue invoked from cmd/distav1-client.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/five82/distav1/internal/assemble"
	"github.com/five82/distav1/internal/config"
	"github.com/five82/distav1/internal/dispatch"
	"github.com/five82/distav1/internal/errors"
	"github.com/five82/distav1/internal/ffprobe"
	"github.com/five82/distav1/internal/job"
	"github.com/five82/distav1/internal/mediatool"
	"github.com/five82/distav1/internal/reporter"
	"github.com/five82/distav1/internal/segment"
	"github.com/five82/distav1/internal/transport"
	"github.com/five82/distav1/internal/util"
	"github.com/five82/distav1/internal/workspace"
)

// RunClient executes one end-to-end job: segment the input, dispatch
// segments to workers, assemble the result. The workspace is torn down
// on every exit path.
func RunClient(ctx context.Context, cfg *config.ClientConfig, rep reporter.Reporter) error {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	tempRoot := cfg.TempDir
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	ws, err := workspace.Open(tempRoot, "distav1_client")
	if err != nil {
		return err
	}
	defer ws.Close()

	conns, closeConns, err := dialWorkers(cfg.Workers)
	if err != nil {
		return err
	}
	defer closeConns()

	sysInfo := util.GetSystemInfo()
	rep.Hardware(reporter.HardwareSummary{Hostname: sysInfo.Hostname, Workers: len(cfg.Workers)})

	summary := reporter.JobSummary{InputFile: cfg.InputPath, OutputFile: cfg.OutputPath}
	for _, w := range cfg.Workers {
		summary.Workers = append(summary.Workers, reporter.WorkerSummary{Addr: w.Addr, Slots: w.Slots})
	}
	rep.JobStarted(summary)

	// The pipeline and the workspace's disk-space watchdog run under one
	// errgroup. The watchdog only warns through rep when space runs low;
	// it stops when the pipeline returns or the job is cancelled.
	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gCtx)
	defer stopWatch()
	g.Go(func() error { return watchFreeSpace(watchCtx, ws, rep) })

	var segments []job.Segment
	var encoded []job.EncodedSegment
	g.Go(func() error {
		defer stopWatch()
		var err error
		segmenter := segment.Segmenter{Tool: mediatool.Tool{}}
		segments, err = segmenter.Run(gCtx, cfg.InputPath, cfg.SegmentDuration, ws)
		if err != nil {
			return err
		}
		rep.SegmentationComplete(reporter.SegmentationSummary{
			SegmentCount:  len(segments),
			TotalDuration: segmentsTotalDuration(segments),
		})

		dispatcher := dispatch.New(conns, rep)
		encoded, err = dispatcher.Run(gCtx, segments, cfg.EncoderParams, cfg.SegmentDuration)
		if err != nil {
			return err
		}

		assembler := assemble.Assembler{Tool: mediatool.Tool{}}
		return assembler.Run(gCtx, encoded, cfg.InputPath, cfg.OutputPath, ws)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	outInfo, statErr := os.Stat(cfg.OutputPath)
	var outSize uint64
	if statErr == nil {
		outSize = uint64(outInfo.Size())
	}
	nonVideo, _ := ffprobe.NonVideoStreams(cfg.InputPath)
	rep.AssemblyComplete(reporter.AssemblyOutcome{
		OutputFile:      cfg.OutputPath,
		OutputSize:      outSize,
		SegmentCount:    len(segments),
		NonVideoStreams: len(nonVideo),
	})
	rep.JobComplete(fmt.Sprintf("wrote %s", cfg.OutputPath))
	return nil
}

// freeSpaceCheckInterval is how often the watchdog polls the
// workspace's filesystem while a job is in flight.
const freeSpaceCheckInterval = 10 * time.Second

// watchFreeSpace polls the workspace's free space until ctx is done,
// warning through rep when space runs low. It never returns a non-nil
// error itself; running it under the pipeline's errgroup only buys it
// the shared cancellation, not the ability to fail the job.
func watchFreeSpace(ctx context.Context, ws *workspace.Workspace, rep reporter.Reporter) error {
	ticker := time.NewTicker(freeSpaceCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if availableMB, ok := ws.CheckFreeSpace(); !ok {
				rep.Warning(fmt.Sprintf("workspace free space is low: %d MB remaining", availableMB))
			}
		}
	}
}

func segmentsTotalDuration(segments []job.Segment) time.Duration {
	var total time.Duration
	for _, s := range segments {
		total += s.Duration
	}
	return total
}

// dialWorkers opens one gRPC connection per configured worker and
// returns the resulting dispatch.WorkerConn list along with a function
// that closes all of them.
func dialWorkers(workers []config.WorkerSpec) ([]*dispatch.WorkerConn, func(), error) {
	if len(workers) == 0 {
		return nil, func() {}, errors.NewNoHealthyWorkersError()
	}

	conns := make([]*dispatch.WorkerConn, 0, len(workers))
	clientConns := make([]*grpc.ClientConn, 0, len(workers))

	closeAll := func() {
		for _, cc := range clientConns {
			_ = cc.Close()
		}
	}

	for _, w := range workers {
		cc, err := grpc.NewClient(w.Addr, transport.DialOptions()...)
		if err != nil {
			closeAll()
			return nil, func() {}, errors.NewTransportError(-1, fmt.Sprintf("failed to dial %s", w.Addr), err)
		}
		clientConns = append(clientConns, cc)
		conns = append(conns, &dispatch.WorkerConn{
			Endpoint: job.NewWorkerEndpoint(w.Addr, w.Slots),
			Client:   transport.NewNodeClient(cc),
		})
	}

	return conns, closeAll, nil
}
