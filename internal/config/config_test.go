package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validClientConfig() *ClientConfig {
	c := NewClientConfig()
	c.InputPath = "/in.mkv"
	c.OutputPath = "/out.mkv"
	c.Workers = []WorkerSpec{{Addr: "grpc://node1:9000", Slots: 2}}
	return c
}

func TestNewClientConfigDefaults(t *testing.T) {
	c := NewClientConfig()
	if c.SegmentDuration != DefaultSegmentDuration {
		t.Errorf("SegmentDuration = %v, want %v", c.SegmentDuration, DefaultSegmentDuration)
	}
}

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(*ClientConfig)
		wantErr      bool
		wantSentinel error
	}{
		{
			name:    "valid config passes",
			modify:  func(c *ClientConfig) {},
			wantErr: false,
		},
		{
			name:         "missing input path",
			modify:       func(c *ClientConfig) { c.InputPath = "" },
			wantErr:      true,
			wantSentinel: ErrMissingInput,
		},
		{
			name:         "missing output path",
			modify:       func(c *ClientConfig) { c.OutputPath = "" },
			wantErr:      true,
			wantSentinel: ErrMissingOutput,
		},
		{
			name:         "no workers configured",
			modify:       func(c *ClientConfig) { c.Workers = nil },
			wantErr:      true,
			wantSentinel: ErrNoWorkers,
		},
		{
			name:         "zero slots is invalid",
			modify:       func(c *ClientConfig) { c.Workers[0].Slots = 0 },
			wantErr:      true,
			wantSentinel: ErrInvalidSlots,
		},
		{
			name:         "negative segment duration is invalid",
			modify:       func(c *ClientConfig) { c.SegmentDuration = -1 * time.Second },
			wantErr:      true,
			wantSentinel: ErrInvalidSegmentDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClientConfig()
			tt.modify(c)

			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantSentinel != nil && !errors.Is(err, tt.wantSentinel) {
				t.Errorf("Validate() error = %v, want sentinel %v", err, tt.wantSentinel)
			}
		})
	}
}

func TestNodeConfigValidate(t *testing.T) {
	c := NewNodeConfig()
	c.ListenAddr = ""
	if err := c.Validate(); err == nil {
		t.Error("Validate() expected error for missing listen address")
	}

	c.ListenAddr = "0.0.0.0:9000"
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	c.MaxConcurrent = 0
	if err := c.Validate(); err == nil {
		t.Error("Validate() expected error for zero max-concurrent")
	}
}

func TestBuildWorkerSpecs(t *testing.T) {
	specs, err := BuildWorkerSpecs([]string{"a:9000", "b:9000"}, []int{2, 4})
	if err != nil {
		t.Fatalf("BuildWorkerSpecs() error = %v", err)
	}
	if len(specs) != 2 || specs[0].Slots != 2 || specs[1].Slots != 4 {
		t.Errorf("unexpected specs: %+v", specs)
	}
}

func TestBuildWorkerSpecsDefaultsMissingSlots(t *testing.T) {
	specs, err := BuildWorkerSpecs([]string{"a:9000", "b:9000"}, nil)
	if err != nil {
		t.Fatalf("BuildWorkerSpecs() error = %v", err)
	}
	for _, s := range specs {
		if s.Slots != DefaultSlots {
			t.Errorf("Slots = %d, want default %d", s.Slots, DefaultSlots)
		}
	}
}

func TestBuildWorkerSpecsMismatchedCounts(t *testing.T) {
	_, err := BuildWorkerSpecs([]string{"a:9000", "b:9000"}, []int{2})
	if !errors.Is(err, ErrSlotsMismatch) {
		t.Errorf("error = %v, want ErrSlotsMismatch", err)
	}
}

func TestLoadFileRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "distav1.toml")
	contents := "input_file = \"/in.mkv\"\nbogus_key = true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFile(path)
	if !errors.Is(err, ErrUnknownConfigKey) {
		t.Errorf("LoadFile() error = %v, want ErrUnknownConfigKey", err)
	}
}

func TestLoadFileAndApplyToClient(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "distav1.toml")
	contents := `
input_file = "/in.mkv"
output_file = "/out.mkv"
nodes = ["node1:9000", "node2:9000"]
slots = [2, 4]
segment_duration = "15s"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	c := NewClientConfig()
	if err := fc.ApplyToClient(c); err != nil {
		t.Fatalf("ApplyToClient() error = %v", err)
	}

	if c.InputPath != "/in.mkv" || c.OutputPath != "/out.mkv" {
		t.Errorf("unexpected paths: %+v", c)
	}
	if len(c.Workers) != 2 || c.Workers[1].Slots != 4 {
		t.Errorf("unexpected workers: %+v", c.Workers)
	}
	if c.SegmentDuration != 15*time.Second {
		t.Errorf("SegmentDuration = %v, want 15s", c.SegmentDuration)
	}
}

func TestApplyToClientDoesNotOverrideCLIValues(t *testing.T) {
	fc := &fileConfig{InputFile: "/from-file.mkv"}
	c := NewClientConfig()
	c.InputPath = "/from-cli.mkv"

	if err := fc.ApplyToClient(c); err != nil {
		t.Fatalf("ApplyToClient() error = %v", err)
	}
	if c.InputPath != "/from-cli.mkv" {
		t.Errorf("InputPath = %q, want CLI value preserved", c.InputPath)
	}
}
