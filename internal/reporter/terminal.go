package reporter

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/distav1/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	progress   *progressbar.ProgressBar
	maxPercent float32
	lastStage  string
	cyan       *color.Color
	green      *color.Color
	yellow     *color.Color
	red        *color.Color
	magenta    *color.Color
	bold       *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

// printLabel prints a bold label with fixed width padding followed by a value.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) Hardware(summary HardwareSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("HARDWARE")
	r.printLabel(10, "Hostname:", summary.Hostname)
	r.printLabel(10, "Workers:", fmt.Sprintf("%d", summary.Workers))
}

func (r *TerminalReporter) JobStarted(summary JobSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("JOB")
	r.printLabel(10, "Input:", summary.InputFile)
	r.printLabel(10, "Output:", summary.OutputFile)
	r.printLabel(10, "Duration:", summary.Duration)
	for _, w := range summary.Workers {
		r.printLabel(10, "Worker:", fmt.Sprintf("%s (%d slots)", w.Addr, w.Slots))
	}
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	r.mu.Lock()
	if r.lastStage != update.Stage {
		r.mu.Unlock()
		fmt.Println()
		_, _ = r.cyan.Println(strings.ToUpper(update.Stage))
		r.mu.Lock()
		r.lastStage = update.Stage
	}
	r.mu.Unlock()
	fmt.Printf("  %s %s\n", r.magenta.Sprint("›"), update.Message)
}

func (r *TerminalReporter) SegmentationComplete(summary SegmentationSummary) {
	fmt.Printf("  %s %d segments (%s total)\n",
		r.bold.Sprint("Segmented:"), summary.SegmentCount, util.FormatDurationFromSecs(int64(summary.TotalDuration.Seconds())))
}

func (r *TerminalReporter) DispatchProgress(snapshot DispatchSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		r.progress = progressbar.NewOptions(
			snapshot.SegmentsTotal,
			progressbar.OptionSetDescription(""),
			progressbar.OptionSetWidth(40),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowDescriptionAtLineEnd(),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "Dispatching [",
				BarEnd:        "]",
			}),
		)
	}

	_ = r.progress.Set(snapshot.SegmentsComplete)

	var inFlight []string
	for _, w := range snapshot.InFlight {
		status := fmt.Sprintf("%d/%d", w.InFlight, w.Slots)
		if w.Quarantined {
			status = "quarantined"
		}
		inFlight = append(inFlight, fmt.Sprintf("%s:%s", w.Addr, status))
	}
	r.progress.Describe(strings.Join(inFlight, " "))
}

func (r *TerminalReporter) WorkerQuarantined(event WorkerEvent) {
	fmt.Println()
	_, _ = r.yellow.Printf("QUARANTINE %s: %s\n", event.Addr, event.Reason)
}

func (r *TerminalReporter) WorkerRehabilitated(event WorkerEvent) {
	fmt.Printf("  %s %s\n", r.green.Sprint("rehabilitated:"), event.Addr)
}

func (r *TerminalReporter) SegmentFailed(event SegmentFailureEvent) {
	kind := "transient"
	if !event.Transient {
		kind = "fatal"
	}
	fmt.Printf("  %s segment %d on %s (%s): %s\n",
		r.red.Sprint("failed"), event.Index, event.Addr, kind, event.Message)
}

func (r *TerminalReporter) AssemblyComplete(summary AssemblyOutcome) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	fmt.Printf("  %s %s\n", r.bold.Sprint("Output:"), r.bold.Sprint(summary.OutputFile))
	fmt.Printf("  %s %s\n", r.bold.Sprint("Size:"), util.FormatBytesReadable(summary.OutputSize))
	fmt.Printf("  %s %d encoded, %d non-video stream(s) reattached\n",
		r.bold.Sprint("Streams:"), summary.SegmentCount, summary.NonVideoStreams)
	fmt.Printf("  %s %s\n",
		r.bold.Sprint("Time:"), util.FormatDurationFromSecs(int64(summary.TotalTime.Seconds())))
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) JobComplete(message string) {
	fmt.Println()
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) Verbose(message string) {
	fmt.Printf("  %s\n", color.New(color.Faint).Sprint(message))
}
