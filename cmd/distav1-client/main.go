// Package main provides the distav1-client CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/distav1/internal/config"
	"github.com/five82/distav1/internal/logging"
	"github.com/five82/distav1/internal/reporter"
	"github.com/five82/distav1/internal/runner"
)

const appName = "distav1-client"

type clientFlags struct {
	inputFile       string
	outputFile      string
	nodes           []string
	slots           []int
	configFile      string
	encoderParams   string
	tempDir         string
	segmentDuration string
	verbose         bool
	jsonOutput      bool
	noLog           bool
	logDir          string
}

func main() {
	var cf clientFlags

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Dispatch a video transcode across a farm of distav1-node workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(cf)
		},
	}

	rootCmd.Flags().StringVar(&cf.inputFile, "input-file", "", "Input video file (required)")
	rootCmd.Flags().StringVar(&cf.outputFile, "output-file", "", "Output video file (required)")
	rootCmd.Flags().StringArrayVar(&cf.nodes, "nodes", nil, "Worker node address (grpc host:port); repeatable")
	rootCmd.Flags().IntSliceVar(&cf.slots, "slots", nil, "Slot count for the node at the same position; repeatable")
	rootCmd.Flags().StringVar(&cf.configFile, "config-file", "", "TOML config file")
	rootCmd.Flags().StringVar(&cf.encoderParams, "encoder-params", "", "Encoder parameters passed through to every node verbatim")
	rootCmd.Flags().StringVar(&cf.tempDir, "temp-dir", "", "Workspace base directory (defaults to the system temp dir)")
	rootCmd.Flags().StringVar(&cf.segmentDuration, "segment-duration", "", "Segment duration, e.g. 10s (default 10s)")
	rootCmd.Flags().BoolVarP(&cf.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().BoolVar(&cf.jsonOutput, "json", false, "Emit NDJSON progress events instead of terminal output")
	rootCmd.Flags().BoolVar(&cf.noLog, "no-log", false, "Disable log file creation")
	rootCmd.Flags().StringVar(&cf.logDir, "log-dir", "", "Log directory (defaults to ~/.local/state/distav1/logs)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

func runClient(cf clientFlags) error {
	cfg := config.NewClientConfig()
	cfg.InputPath = cf.inputFile
	cfg.OutputPath = cf.outputFile
	cfg.EncoderParams = cf.encoderParams
	cfg.TempDir = cf.tempDir
	cfg.Verbose = cf.verbose
	cfg.JSONOutput = cf.jsonOutput

	if len(cf.nodes) > 0 {
		workers, err := config.BuildWorkerSpecs(cf.nodes, cf.slots)
		if err != nil {
			return usageError(err)
		}
		cfg.Workers = workers
	}
	if cf.segmentDuration != "" {
		d, err := time.ParseDuration(cf.segmentDuration)
		if err != nil {
			return usageError(fmt.Errorf("invalid --segment-duration: %w", err))
		}
		cfg.SegmentDuration = d
	}

	if cf.configFile != "" {
		fc, err := config.LoadFile(cf.configFile)
		if err != nil {
			return usageError(err)
		}
		if err := fc.ApplyToClient(cfg); err != nil {
			return usageError(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}

	logDir := cf.logDir
	if logDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		logDir = filepath.Join(homeDir, ".local", "state", "distav1", "logs")
	}
	logger, err := logging.Setup(logDir, "distav1_client", cfg.Verbose, cf.noLog)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	if logger != nil {
		defer func() { _ = logger.Close() }()
		logger.Info("input=%s output=%s workers=%d", cfg.InputPath, cfg.OutputPath, len(cfg.Workers))
	}

	rep := buildReporter(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	err = runner.RunClient(ctx, cfg, rep)
	if err != nil && logger != nil {
		logger.Error("job failed: %v", err)
	}
	return err
}

func buildReporter(cfg *config.ClientConfig) reporter.Reporter {
	if cfg.JSONOutput {
		return reporter.NewJSONReporter()
	}
	return reporter.NewTerminalReporter()
}

// usageErr marks an error as a usage error (exit code 2) rather than a
// runtime failure (exit code 1).
type usageErr struct{ err error }

func (e *usageErr) Error() string { return e.err.Error() }
func (e *usageErr) Unwrap() error { return e.err }

func usageError(err error) error {
	return &usageErr{err: err}
}

// exitCodeFor maps a top-level error to the process exit code: 0 is
// handled by the caller (no error at all), 2 is a usage/validation
// error, 1 is everything else (runtime failures, including every
// distav1-specific CoreError kind).
func exitCodeFor(err error) int {
	var ue *usageErr
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}
