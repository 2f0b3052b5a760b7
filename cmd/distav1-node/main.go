// Package main provides the distav1-node CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/distav1/internal/config"
	"github.com/five82/distav1/internal/logging"
	"github.com/five82/distav1/internal/mediatool"
	"github.com/five82/distav1/internal/node"
	"github.com/five82/distav1/internal/util"
	"github.com/five82/distav1/internal/workspace"
)

const appName = "distav1-node"

type nodeFlags struct {
	listenAddr    string
	configFile    string
	tempDir       string
	maxConcurrent int
	verbose       bool
	noLog         bool
	logDir        string
}

func main() {
	var nf nodeFlags

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Accept Encode RPCs and transcode segments dispatched by a distav1-client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(nf)
		},
	}

	rootCmd.Flags().StringVar(&nf.listenAddr, "node", "", "Listen address, e.g. 0.0.0.0:9000 (required)")
	rootCmd.Flags().StringVar(&nf.configFile, "config-file", "", "TOML config file")
	rootCmd.Flags().StringVar(&nf.tempDir, "temp-dir", "", "Workspace base directory (defaults to the system temp dir)")
	rootCmd.Flags().IntVar(&nf.maxConcurrent, "max-concurrent", 0, "Maximum simultaneous Encode RPCs (default: logical core count)")
	rootCmd.Flags().BoolVarP(&nf.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().BoolVar(&nf.noLog, "no-log", false, "Disable log file creation")
	rootCmd.Flags().StringVar(&nf.logDir, "log-dir", "", "Log directory (defaults to ~/.local/state/distav1/logs)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

func runNode(nf nodeFlags) error {
	cfg := config.NewNodeConfig()
	cfg.ListenAddr = nf.listenAddr
	cfg.TempDir = nf.tempDir
	cfg.Verbose = nf.verbose
	if nf.maxConcurrent > 0 {
		cfg.MaxConcurrent = nf.maxConcurrent
	}

	if nf.configFile != "" {
		fc, err := config.LoadFile(nf.configFile)
		if err != nil {
			return usageError(err)
		}
		fc.ApplyToNode(cfg)
	}

	// The flag was not given and MaxConcurrent is still the package
	// default (the config file left it unset or set that same value):
	// size to the node's own logical core count instead.
	if nf.maxConcurrent == 0 && cfg.MaxConcurrent == config.DefaultMaxConcurrent {
		cfg.MaxConcurrent = util.LogicalCores()
	}

	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}

	logDir := nf.logDir
	if logDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		logDir = filepath.Join(homeDir, ".local", "state", "distav1", "logs")
	}
	logger, err := logging.Setup(logDir, "distav1_node", cfg.Verbose, nf.noLog)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	if logger != nil {
		defer func() { _ = logger.Close() }()
		logger.Info("listen=%s max-concurrent=%d", cfg.ListenAddr, cfg.MaxConcurrent)
	}

	tempRoot := cfg.TempDir
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	ws, err := workspace.Open(tempRoot, "distav1_node")
	if err != nil {
		return fmt.Errorf("failed to open node workspace: %w", err)
	}
	defer ws.Close()

	svc := &node.Service{Tool: mediatool.Tool{}, WS: ws}
	srv := node.NewServer(cfg.ListenAddr, svc, uint32(cfg.MaxConcurrent))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		if logger != nil {
			logger.Info("shutting down")
		}
		srv.Stop()
	}()

	if logger != nil {
		logger.Info("serving on %s", cfg.ListenAddr)
	}
	return srv.Serve()
}

type usageErr struct{ err error }

func (e *usageErr) Error() string { return e.err.Error() }
func (e *usageErr) Unwrap() error { return e.err }

func usageError(err error) error {
	return &usageErr{err: err}
}

func exitCodeFor(err error) int {
	var ue *usageErr
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}
