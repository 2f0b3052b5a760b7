// Package config provides configuration types and defaults for distav1.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrMissingInput indicates no input file was provided.
	ErrMissingInput = errors.New("input file is required")

	// ErrMissingOutput indicates no output file was provided.
	ErrMissingOutput = errors.New("output file is required")

	// ErrNoWorkers indicates no worker nodes were configured.
	ErrNoWorkers = errors.New("at least one worker node is required")

	// ErrSlotsMismatch indicates --nodes and --slots were given different counts.
	ErrSlotsMismatch = errors.New("number of --slots values must match number of --nodes values")

	// ErrInvalidSlots indicates a non-positive slot count was given for a worker.
	ErrInvalidSlots = errors.New("slot count must be at least 1")

	// ErrInvalidSegmentDuration indicates a non-positive segment duration.
	ErrInvalidSegmentDuration = errors.New("segment duration must be positive")

	// ErrUnknownConfigKey indicates a TOML config file contained a key this
	// version of distav1 does not recognize.
	ErrUnknownConfigKey = errors.New("unknown configuration key")
)
