package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Default constants.
const (
	// DefaultSegmentDuration is used when no --segment-duration is given.
	DefaultSegmentDuration = 10 * time.Second

	// DefaultSlots is the slot count every node gets when no --slots
	// value is given at all.
	DefaultSlots = 1

	// DefaultMaxConcurrent is NewNodeConfig's MaxConcurrent. distav1-node
	// replaces it with the logical core count when neither --max-concurrent
	// nor the config file changes it.
	DefaultMaxConcurrent = 4
)

// WorkerSpec is one --nodes/--slots pair before resolution into a
// job.WorkerEndpoint.
type WorkerSpec struct {
	Addr  string
	Slots int
}

// ClientConfig holds the settings for one distav1-client invocation.
type ClientConfig struct {
	InputPath       string
	OutputPath      string
	EncoderParams   string
	Workers         []WorkerSpec
	TempDir         string
	SegmentDuration time.Duration
	Verbose         bool
	JSONOutput      bool
}

// NewClientConfig returns a ClientConfig populated with defaults.
func NewClientConfig() *ClientConfig {
	return &ClientConfig{
		SegmentDuration: DefaultSegmentDuration,
	}
}

// Validate checks the client configuration for errors.
func (c *ClientConfig) Validate() error {
	if c.InputPath == "" {
		return ErrMissingInput
	}
	if c.OutputPath == "" {
		return ErrMissingOutput
	}
	if len(c.Workers) == 0 {
		return ErrNoWorkers
	}
	for _, w := range c.Workers {
		if w.Slots < 1 {
			return fmt.Errorf("%w: %s has %d", ErrInvalidSlots, w.Addr, w.Slots)
		}
	}
	if c.SegmentDuration <= 0 {
		return ErrInvalidSegmentDuration
	}
	return nil
}

// NodeConfig holds the settings for one distav1-node invocation.
type NodeConfig struct {
	ListenAddr    string
	TempDir       string
	MaxConcurrent int
	Verbose       bool
}

// NewNodeConfig returns a NodeConfig populated with defaults.
func NewNodeConfig() *NodeConfig {
	return &NodeConfig{
		MaxConcurrent: DefaultMaxConcurrent,
	}
}

// Validate checks the node configuration for errors.
func (c *NodeConfig) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max-concurrent must be at least 1, got %d", c.MaxConcurrent)
	}
	return nil
}

// fileConfig is the TOML shape accepted by --config-file. Zero values mean
// "not set". ApplyToClient and ApplyToNode copy a file value only into a
// field the command line left empty or at its package default; a flag
// passed with exactly the default value is not told apart from an unset
// one, so the file's value replaces it.
type fileConfig struct {
	InputFile       string   `toml:"input_file"`
	OutputFile      string   `toml:"output_file"`
	EncoderParams   string   `toml:"encoder_params"`
	Nodes           []string `toml:"nodes"`
	Slots           []int    `toml:"slots"`
	TempDir         string   `toml:"temp_dir"`
	SegmentDuration string   `toml:"segment_duration"`
	ListenAddr      string   `toml:"listen_addr"`
	MaxConcurrent   int      `toml:"max_concurrent"`
	Verbose         bool     `toml:"verbose"`
}

// LoadFile parses a TOML config file, rejecting unrecognized keys.
func LoadFile(path string) (*fileConfig, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnknownConfigKey, undecoded[0].String(), path)
	}
	return &fc, nil
}

// ApplyToClient merges file-sourced values into a ClientConfig, skipping
// any field the caller has already set from the command line.
func (fc *fileConfig) ApplyToClient(c *ClientConfig) error {
	if c.InputPath == "" {
		c.InputPath = fc.InputFile
	}
	if c.OutputPath == "" {
		c.OutputPath = fc.OutputFile
	}
	if c.EncoderParams == "" {
		c.EncoderParams = fc.EncoderParams
	}
	if c.TempDir == "" {
		c.TempDir = fc.TempDir
	}
	if len(c.Workers) == 0 && len(fc.Nodes) > 0 {
		workers, err := BuildWorkerSpecs(fc.Nodes, fc.Slots)
		if err != nil {
			return err
		}
		c.Workers = workers
	}
	if fc.SegmentDuration != "" && c.SegmentDuration == DefaultSegmentDuration {
		d, err := time.ParseDuration(fc.SegmentDuration)
		if err != nil {
			return fmt.Errorf("invalid segment_duration %q: %w", fc.SegmentDuration, err)
		}
		c.SegmentDuration = d
	}
	if !c.Verbose {
		c.Verbose = fc.Verbose
	}
	return nil
}

// ApplyToNode merges file-sourced values into a NodeConfig, skipping any
// field the caller has already set from the command line.
func (fc *fileConfig) ApplyToNode(c *NodeConfig) {
	if c.ListenAddr == "" {
		c.ListenAddr = fc.ListenAddr
	}
	if fc.MaxConcurrent > 0 && c.MaxConcurrent == DefaultMaxConcurrent {
		c.MaxConcurrent = fc.MaxConcurrent
	}
	if c.TempDir == "" {
		c.TempDir = fc.TempDir
	}
	if !c.Verbose {
		c.Verbose = fc.Verbose
	}
}

// BuildWorkerSpecs zips parallel --nodes/--slots lists into WorkerSpecs.
// An empty slots list gives every node DefaultSlots; a non-empty slots
// list whose length differs from nodes returns ErrSlotsMismatch.
func BuildWorkerSpecs(nodes []string, slots []int) ([]WorkerSpec, error) {
	if len(slots) > 0 && len(slots) != len(nodes) {
		return nil, ErrSlotsMismatch
	}
	specs := make([]WorkerSpec, len(nodes))
	for i, addr := range nodes {
		s := DefaultSlots
		if i < len(slots) {
			s = slots[i]
		}
		specs[i] = WorkerSpec{Addr: addr, Slots: s}
	}
	return specs, nil
}
