package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) Hardware(summary HardwareSummary) {
	for _, r := range c.reporters {
		r.Hardware(summary)
	}
}

func (c *CompositeReporter) JobStarted(summary JobSummary) {
	for _, r := range c.reporters {
		r.JobStarted(summary)
	}
}

func (c *CompositeReporter) StageProgress(update StageProgress) {
	for _, r := range c.reporters {
		r.StageProgress(update)
	}
}

func (c *CompositeReporter) SegmentationComplete(summary SegmentationSummary) {
	for _, r := range c.reporters {
		r.SegmentationComplete(summary)
	}
}

func (c *CompositeReporter) DispatchProgress(snapshot DispatchSnapshot) {
	for _, r := range c.reporters {
		r.DispatchProgress(snapshot)
	}
}

func (c *CompositeReporter) WorkerQuarantined(event WorkerEvent) {
	for _, r := range c.reporters {
		r.WorkerQuarantined(event)
	}
}

func (c *CompositeReporter) WorkerRehabilitated(event WorkerEvent) {
	for _, r := range c.reporters {
		r.WorkerRehabilitated(event)
	}
}

func (c *CompositeReporter) SegmentFailed(event SegmentFailureEvent) {
	for _, r := range c.reporters {
		r.SegmentFailed(event)
	}
}

func (c *CompositeReporter) AssemblyComplete(summary AssemblyOutcome) {
	for _, r := range c.reporters {
		r.AssemblyComplete(summary)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) JobComplete(message string) {
	for _, r := range c.reporters {
		r.JobComplete(message)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
