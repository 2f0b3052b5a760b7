package util

import (
	"runtime"
	"testing"
)

func TestLogicalCores(t *testing.T) {
	cores := LogicalCores()
	if cores <= 0 {
		t.Errorf("LogicalCores() = %d, want > 0", cores)
	}
	if cores != runtime.NumCPU() {
		t.Errorf("LogicalCores() = %d, want %d (runtime.NumCPU())", cores, runtime.NumCPU())
	}
}

func TestGetSystemInfo(t *testing.T) {
	info := GetSystemInfo()
	if info.NumCPU <= 0 {
		t.Errorf("NumCPU = %d, want > 0", info.NumCPU)
	}
	if info.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", info.OS, runtime.GOOS)
	}
	if info.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", info.Arch, runtime.GOARCH)
	}
}
