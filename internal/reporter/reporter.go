package reporter

// Reporter defines the interface for progress reporting across the
// segmenting, dispatching, and assembling stages of a job.
type Reporter interface {
	Hardware(summary HardwareSummary)
	JobStarted(summary JobSummary)
	StageProgress(update StageProgress)
	SegmentationComplete(summary SegmentationSummary)
	DispatchProgress(snapshot DispatchSnapshot)
	WorkerQuarantined(event WorkerEvent)
	WorkerRehabilitated(event WorkerEvent)
	SegmentFailed(event SegmentFailureEvent)
	AssemblyComplete(summary AssemblyOutcome)
	Warning(message string)
	Error(err ReporterError)
	JobComplete(message string)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) Hardware(HardwareSummary)                 {}
func (NullReporter) JobStarted(JobSummary)                    {}
func (NullReporter) StageProgress(StageProgress)              {}
func (NullReporter) SegmentationComplete(SegmentationSummary) {}
func (NullReporter) DispatchProgress(DispatchSnapshot)        {}
func (NullReporter) WorkerQuarantined(WorkerEvent)            {}
func (NullReporter) WorkerRehabilitated(WorkerEvent)          {}
func (NullReporter) SegmentFailed(SegmentFailureEvent)        {}
func (NullReporter) AssemblyComplete(AssemblyOutcome)         {}
func (NullReporter) Warning(string)                           {}
func (NullReporter) Error(ReporterError)                      {}
func (NullReporter) JobComplete(string)                       {}
func (NullReporter) Verbose(string)                           {}
